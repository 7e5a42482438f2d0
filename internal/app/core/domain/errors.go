package domain

import "errors"

var (
	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrStorageUnavailable 儲存層無法使用 (非記憶體實作的 Repository 才會出現)
	ErrStorageUnavailable = errors.New("storage unavailable")
)
