package components

import (
	"fmt"

	"github.com/hivecore/hivemon/ui/styles"
)

// RenderBanners shows the oldest pending banner; the operator dismisses them
// one at a time with 'd'.
func RenderBanners(banners []string, width int) string {
	if len(banners) == 0 {
		return ""
	}
	msg := banners[0]
	if n := len(banners) - 1; n > 0 {
		msg = fmt.Sprintf("%s (+%d more)", msg, n)
	}
	return styles.BannerStyle().Render(truncate(msg, width-2))
}
