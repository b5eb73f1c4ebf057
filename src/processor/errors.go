package processor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingData 筛选后没有可统计的记录
	ErrMissingData = errors.New("no qualifying records")
	// ErrInvalidParameter 参数非法，例如 top_n <= 0 或航司筛选无匹配
	ErrInvalidParameter = errors.New("invalid parameter")
)

// SchemaError 输入表缺少必需的列
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: missing columns [%s]", strings.Join(e.Missing, ", "))
}
