package interfaces

import "errors"

// ErrDuplicate 唯一索引冲突，例如用户名或店铺 slug 已存在
var ErrDuplicate = errors.New("duplicate entry")
