package core

import (
	"github.com/qualitydesk/qualens/schema"
)

// GroupByProduct consumes the ordered record list and produces one aggregate
// per unique product identifier.
//
// Two different accumulation rules apply:
//   - TotalDeductions is summed across rows: one product may span several
//     purchase orders, each carrying its own deduction.
//   - TotalIncidents is NOT summed. The source denormalizes the per-product
//     incident total onto every row, so the aggregate takes the maximum
//     observed value (they should be identical; max guards against drift).
func GroupByProduct(records []schema.RawRecord) map[string]*schema.ProductAggregate {
	groups := make(map[string]*schema.ProductAggregate)

	for _, record := range records {
		if record.ProductID == "" {
			continue
		}

		group, ok := groups[record.ProductID]
		if !ok {
			group = &schema.ProductAggregate{
				ProductID:         record.ProductID,
				SKUCode:           record.SKUCode,
				FirstDeliveryDate: record.DeliveryDate,
				TotalIncidents:    record.TotalIncidents,
				TotalDeductions:   record.Deduction,
				DeductionCurrency: record.DeductionCurrency,
			}
			groups[record.ProductID] = group
			group.Rows = append(group.Rows, record)
			continue
		}

		group.Rows = append(group.Rows, record)

		// Dates are fixed-width YYYY-MM-DD strings, so lexicographic order
		// equals chronological order.
		if record.DeliveryDate != "" && record.DeliveryDate < group.FirstDeliveryDate {
			group.FirstDeliveryDate = record.DeliveryDate
		}

		if record.TotalIncidents > group.TotalIncidents {
			group.TotalIncidents = record.TotalIncidents
		}

		if record.Deduction > 0 {
			group.TotalDeductions += record.Deduction
		}
	}

	return groups
}
