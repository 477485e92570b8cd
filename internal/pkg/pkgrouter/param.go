package pkgrouter

import (
	"context"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// GetParam reads a path parameter stored by httprouter, trimmed of spaces.
// Missing parameters read as "".
func GetParam(ctx context.Context, key string) string {
	return strings.TrimSpace(httprouter.ParamsFromContext(ctx).ByName(key))
}
