package service

import (
	"homestyling/internal/model"
	"homestyling/internal/utils"
)

// Aggregate derives the benefit summary from a display list. It is recomputed
// whenever the product list or purchase-type toggle changes and is never
// stored apart from its source list.
//
// Invariant: NetBenefit = TotalPrice - TotalDiscount.
func Aggregate(products []model.DisplayProduct) model.BenefitSummary {
	summary := model.BenefitSummary{Items: []model.CategorySubtotal{}}

	subtotals := make(map[string]int64)
	var order []string

	for _, p := range products {
		summary.TotalPrice += p.DisplayPrice

		discount := p.DisplayDiscount
		if discount < 0 {
			discount = -discount
		}
		summary.TotalDiscount += discount

		if _, seen := subtotals[p.Category]; !seen {
			order = append(order, p.Category)
		}
		subtotals[p.Category] += p.DisplayPrice
	}

	summary.NetBenefit = summary.TotalPrice - summary.TotalDiscount

	// First-encountered category order.
	for _, category := range order {
		summary.Items = append(summary.Items, model.CategorySubtotal{
			Category: category,
			Price:    subtotals[category],
			Label:    utils.FormatPrice(subtotals[category]),
		})
	}
	return summary
}

// GroupByCategory clusters display products by category tag. Each group's
// representative image is the first non-empty image URL encountered, and the
// anchor is the group's first product, which the client scrolls to and
// highlights on image click.
func GroupByCategory(products []model.DisplayProduct) []model.CategoryGroup {
	var groups []model.CategoryGroup
	index := make(map[string]int)

	for _, p := range products {
		i, seen := index[p.Category]
		if !seen {
			index[p.Category] = len(groups)
			groups = append(groups, model.CategoryGroup{
				Category:        p.Category,
				AnchorProductID: p.ID,
			})
			i = len(groups) - 1
		}
		g := &groups[i]
		g.ProductIDs = append(g.ProductIDs, p.ID)
		if g.ImageURL == "" && p.ImageURL != "" {
			g.ImageURL = p.ImageURL
		}
	}
	return groups
}
