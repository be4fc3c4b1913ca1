package distributions

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Partner is one profit-sharing partner as configured in the partners
// master.
type Partner struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	SharePercentage decimal.Decimal `json:"share_percentage"`
	Active          bool            `json:"active"`
}

// Share is one partner's cut of a distribution run.
type Share struct {
	PartnerID   string          `json:"partner_id"`
	PartnerName string          `json:"partner_name"`
	Amount      decimal.Decimal `json:"amount"`
}

var hundred = decimal.NewFromInt(100)

// Split divides a profit amount across the active partners proportionally
// to share percentage. Active shares must total exactly 100. Each share is
// rounded to cents; the final partner absorbs the rounding remainder so
// the shares always sum exactly to the input amount.
func Split(amount decimal.Decimal, partners []Partner) ([]Share, error) {
	active := make([]Partner, 0, len(partners))
	total := decimal.Zero
	for _, p := range partners {
		if !p.Active {
			continue
		}
		active = append(active, p)
		total = total.Add(p.SharePercentage)
	}
	if len(active) == 0 {
		return nil, fmt.Errorf("no active partners to distribute to")
	}
	if !total.Equal(hundred) {
		return nil, fmt.Errorf("active partner shares total %s%%, must equal 100%%", total.String())
	}

	shares := make([]Share, 0, len(active))
	allocated := decimal.Zero
	for i, p := range active {
		var cut decimal.Decimal
		if i == len(active)-1 {
			cut = amount.Sub(allocated)
		} else {
			cut = amount.Mul(p.SharePercentage).Div(hundred).Round(2)
			allocated = allocated.Add(cut)
		}
		shares = append(shares, Share{PartnerID: p.ID, PartnerName: p.Name, Amount: cut})
	}
	return shares, nil
}
