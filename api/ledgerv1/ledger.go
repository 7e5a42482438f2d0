// Package ledgerv1 定義 ledger.v1.LedgerService 的訊息、服務描述與客戶端。
//
// 訊息以 JSON 傳輸 (content-subtype "json")，編解碼由 pkg/grpc.JSONCodec 負責，
// 因此這裡的型別是一般 struct 而非 protoc 產生的程式碼。
package ledgerv1

import (
	"context"

	"google.golang.org/grpc"

	ledgergrpc "github.com/JoeShih716/go-bank-ledger/pkg/grpc"
)

const ServiceName = "ledger.v1.LedgerService"

const (
	LedgerService_CreateAccount_FullMethodName = "/ledger.v1.LedgerService/CreateAccount"
	LedgerService_Deposit_FullMethodName       = "/ledger.v1.LedgerService/Deposit"
	LedgerService_Withdraw_FullMethodName      = "/ledger.v1.LedgerService/Withdraw"
	LedgerService_GetAccount_FullMethodName    = "/ledger.v1.LedgerService/GetAccount"
)

type CreateAccountRequest struct {
	AccountNumber string `json:"account_number"`
	InitialAmount int64  `json:"initial_amount"`
}

type CreateAccountResponse struct{}

// AmountRequest 是 Deposit 與 Withdraw 共用的請求
type AmountRequest struct {
	AccountNumber string `json:"account_number"`
	Amount        int64  `json:"amount"`
}

type GetAccountRequest struct {
	AccountNumber string `json:"account_number"`
}

// Account 是帳戶對外的檢視
type Account struct {
	AccountNumber string `json:"account_number"`
	InitialAmount int64  `json:"initial_amount"`
	Balance       int64  `json:"balance"`
}

// LedgerServiceServer 是服務端要實作的介面
type LedgerServiceServer interface {
	CreateAccount(context.Context, *CreateAccountRequest) (*CreateAccountResponse, error)
	Deposit(context.Context, *AmountRequest) (*Account, error)
	Withdraw(context.Context, *AmountRequest) (*Account, error)
	GetAccount(context.Context, *GetAccountRequest) (*Account, error)
}

func RegisterLedgerServiceServer(s grpc.ServiceRegistrar, srv LedgerServiceServer) {
	s.RegisterService(&LedgerService_ServiceDesc, srv)
}

// unaryHandler 把解碼、攔截器與實際呼叫組成 grpc.MethodDesc 需要的 handler
func unaryHandler[Req any, Resp any](
	fullMethod string,
	call func(LedgerServiceServer, context.Context, *Req) (*Resp, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LedgerServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LedgerServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var LedgerService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateAccount",
			Handler:    unaryHandler(LedgerService_CreateAccount_FullMethodName, LedgerServiceServer.CreateAccount),
		},
		{
			MethodName: "Deposit",
			Handler:    unaryHandler(LedgerService_Deposit_FullMethodName, LedgerServiceServer.Deposit),
		},
		{
			MethodName: "Withdraw",
			Handler:    unaryHandler(LedgerService_Withdraw_FullMethodName, LedgerServiceServer.Withdraw),
		},
		{
			MethodName: "GetAccount",
			Handler:    unaryHandler(LedgerService_GetAccount_FullMethodName, LedgerServiceServer.GetAccount),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ledger/v1/ledger",
}

// LedgerServiceClient 是 LedgerService 的客戶端
type LedgerServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewLedgerServiceClient(cc grpc.ClientConnInterface) *LedgerServiceClient {
	return &LedgerServiceClient{cc: cc}
}

// invoke 一律帶上 JSON content-subtype，呼叫端的 CallOption 排在後面可覆寫
func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	callOpts := append([]grpc.CallOption{grpc.CallContentSubtype(ledgergrpc.CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *LedgerServiceClient) CreateAccount(ctx context.Context, in *CreateAccountRequest, opts ...grpc.CallOption) (*CreateAccountResponse, error) {
	return invoke[CreateAccountResponse](ctx, c.cc, LedgerService_CreateAccount_FullMethodName, in, opts)
}

func (c *LedgerServiceClient) Deposit(ctx context.Context, in *AmountRequest, opts ...grpc.CallOption) (*Account, error) {
	return invoke[Account](ctx, c.cc, LedgerService_Deposit_FullMethodName, in, opts)
}

func (c *LedgerServiceClient) Withdraw(ctx context.Context, in *AmountRequest, opts ...grpc.CallOption) (*Account, error) {
	return invoke[Account](ctx, c.cc, LedgerService_Withdraw_FullMethodName, in, opts)
}

func (c *LedgerServiceClient) GetAccount(ctx context.Context, in *GetAccountRequest, opts ...grpc.CallOption) (*Account, error) {
	return invoke[Account](ctx, c.cc, LedgerService_GetAccount_FullMethodName, in, opts)
}
