package layout

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces widget identifiers.
type IDGenerator func() string

// NewWidgetID returns "widget-<unix millis>-<random>". The random part is
// the first nine hex digits of a v4 UUID.
func NewWidgetID() string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "widget-" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + random[:9]
}
