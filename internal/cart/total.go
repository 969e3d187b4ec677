package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/grocerylist-backend/pkg/db/models"
)

// ComputeTotal sums quantity × estimated price over lines whose item resolves.
// Items without a price count as zero. The result is rounded to cents.
func ComputeTotal(lines []models.CartLine, items map[uuid.UUID]models.Item) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		item, ok := items[line.ItemID]
		if !ok {
			continue
		}
		total = total.Add(item.PriceOrZero().Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total.Round(2)
}
