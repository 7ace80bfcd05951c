package components

import (
	"strings"

	"github.com/hivecore/hivemon/internal/core"
	"github.com/hivecore/hivemon/ui/styles"
)

func RenderTabs(active core.View) string {
	var b strings.Builder
	for i, v := range core.AllViews {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(styles.TabStyle(v == active).Render(v.String()))
	}
	return b.String()
}
