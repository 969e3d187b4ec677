package cart

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const exportRuleWidth = 40

// ExportLine is one checkbox row of the shopping list.
type ExportLine struct {
	Category string
	Name     string
	Quantity int
	Unit     string
}

// RenderExport builds the plain-text shopping list. Sections follow the order
// in which each category first appears in lines.
func RenderExport(lines []ExportLine, total decimal.Decimal, now time.Time) string {
	var b strings.Builder

	b.WriteString("🛒 GROCERY SHOPPING LIST\n")
	b.WriteString(strings.Repeat("=", exportRuleWidth) + "\n")
	fmt.Fprintf(&b, "Date: %d/%d/%d\n\n", int(now.Month()), now.Day(), now.Year())

	order := make([]string, 0)
	sections := make(map[string][]ExportLine)
	for _, line := range lines {
		if _, seen := sections[line.Category]; !seen {
			order = append(order, line.Category)
		}
		sections[line.Category] = append(sections[line.Category], line)
	}

	for _, category := range order {
		fmt.Fprintf(&b, "📦 %s\n", strings.ToUpper(category))
		b.WriteString(strings.Repeat("-", exportRuleWidth) + "\n")
		for _, line := range sections[category] {
			fmt.Fprintf(&b, "  ☐ %s - %d %s\n", line.Name, line.Quantity, line.Unit)
		}
		b.WriteString("\n")
	}

	if total.IsPositive() {
		b.WriteString(strings.Repeat("=", exportRuleWidth) + "\n")
		fmt.Fprintf(&b, "💰 Estimated Total: $%s\n", total.StringFixed(2))
	}

	return b.String()
}
