package editor

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pagebuilder/internal/domain"
)

// ErrUnknownType is returned when a node is requested for a type outside the
// closed variant set.
var ErrUnknownType = errors.New("unknown component type")

// countdownWindow is how far in the future a new countdown ends.
const countdownWindow = 24 * time.Hour

// Factory builds new component nodes from per-type defaults.
// The zero value is not usable; call NewFactory.
type Factory struct {
	Now   func() time.Time
	NewID func() string
}

// NewFactory returns a Factory using the wall clock and random UUIDs.
func NewFactory() *Factory {
	return &Factory{
		Now:   time.Now,
		NewID: uuid.NewString,
	}
}

var defaultFactory = NewFactory()

// NewNode builds a node with the package default factory.
func NewNode(t domain.ComponentType, props map[string]any, style domain.Style) (domain.ComponentNode, error) {
	return defaultFactory.New(t, props, style)
}

// New returns a fresh node of type t. props and style are merged shallowly
// over the type defaults: an override wins per key and unspecified defaults
// survive. Props keys the variant does not declare, or with values of the wrong
// shape, leave the default in place.
//
// New nodes are always visible, unlocked and critical.
func (f *Factory) New(t domain.ComponentType, props map[string]any, style domain.Style) (domain.ComponentNode, error) {
	defProps, defStyle, ok := defaults(t, f.Now())
	if !ok {
		return domain.ComponentNode{}, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}

	merged := defProps
	if len(props) > 0 {
		if p, _, err := domain.MergeProps(defProps, props); err == nil {
			merged = p
		}
	}

	return domain.ComponentNode{
		ID:           f.NewID(),
		Type:         t,
		Name:         string(t),
		Props:        merged,
		Style:        defStyle.Merge(style),
		LoadPriority: domain.LoadCritical,
		Visible:      true,
		Locked:       false,
	}, nil
}

// defaults allocates the default props and style for t. Every call returns
// new values so nodes never share slices.
func defaults(t domain.ComponentType, now time.Time) (domain.Props, domain.Style, bool) {
	switch t {
	case domain.ComponentBanner:
		return &domain.BannerProps{Images: []string{}, Autoplay: true, Interval: 3000},
			domain.Style{Width: "100%", Height: "200px"}, true
	case domain.ComponentProductCard:
		return &domain.ProductCardProps{},
			domain.Style{Width: "100%", Padding: "12px"}, true
	case domain.ComponentProductGrid:
		return &domain.ProductGridProps{Columns: 2, Gap: 12},
			domain.Style{Padding: "0 12px"}, true
	case domain.ComponentTextBlock:
		return &domain.TextBlockProps{Content: "New Text", Level: "p"},
			domain.Style{Padding: "12px 16px", FontSize: 16}, true
	case domain.ComponentImageBlock:
		return &domain.ImageBlockProps{},
			domain.Style{Width: "100%", Height: "180px"}, true
	case domain.ComponentButton:
		return &domain.ButtonProps{Text: "Click Me", URL: "#"},
			domain.Style{
				Padding:         "12px 24px",
				BackgroundColor: "#3B82F6",
				Color:           "#FFFFFF",
				TextAlign:       domain.AlignCenter,
				BorderRadius:    "8px",
				Margin:          "12px 16px",
				FontWeight:      "bold",
			}, true
	case domain.ComponentCoupon:
		return &domain.CouponProps{Code: "SAVE20", Discount: "20% OFF", Description: "Limited time offer"},
			domain.Style{
				Margin:          "12px 16px",
				Padding:         "16px",
				BackgroundColor: "#FEF3C7",
				BorderRadius:    "12px",
				TextAlign:       domain.AlignCenter,
			}, true
	case domain.ComponentCountdown:
		end := now.Add(countdownWindow).UTC().Format("2006-01-02T15:04:05.000Z07:00")
		return &domain.CountdownProps{EndTime: end, Label: "Ends In"},
			domain.Style{Padding: "16px", TextAlign: domain.AlignCenter}, true
	case domain.ComponentDivider:
		return &domain.DividerProps{},
			domain.Style{Margin: "8px 0", Height: "1px", BackgroundColor: "#E5E7EB"}, true
	case domain.ComponentSpacer:
		return &domain.SpacerProps{Height: 24}, domain.Style{}, true
	case domain.ComponentNavBar:
		return &domain.NavBarProps{Title: "Page Title", BackgroundColor: "#1F2937", TextColor: "#FFFFFF"},
			domain.Style{Padding: "12px 16px"}, true
	case domain.ComponentPriceTable:
		return &domain.PriceTableProps{
				Title:    "Discount Tiers",
				Currency: "$",
				Tiers: []domain.PriceTier{
					{Threshold: 200, Discount: 50, Label: "Spend $200 Save $50"},
					{Threshold: 100, Discount: 20, Label: "Spend $100 Save $20"},
					{Threshold: 50, Discount: 5, Label: "Spend $50 Save $5"},
				},
			},
			domain.Style{Padding: "16px", Margin: "12px 16px", BackgroundColor: "#FEF2F2", BorderRadius: "12px"}, true
	case domain.ComponentProductList:
		return &domain.ProductListProps{Title: "Product List", Items: []domain.ProductListItem{}, ShowIndex: true},
			domain.Style{Padding: "12px 16px", BackgroundColor: "#FFFFFF"}, true
	case domain.ComponentPromoSection:
		return &domain.PromoSectionProps{Title: "Featured", DecorStyle: "ribbon", AccentColor: "#EF4444"},
			domain.Style{Padding: "20px 16px 12px", TextAlign: domain.AlignCenter}, true
	case domain.ComponentContactBar:
		return &domain.ContactBarProps{Phone: "1-800-888-8888"},
			domain.Style{Padding: "16px", BackgroundColor: "#F9FAFB", BorderRadius: "8px", Margin: "12px 16px"}, true
	case domain.ComponentRechargeCard:
		return &domain.RechargeCardProps{PayAmount: 200, GetAmount: 230, Label: "Top-up Bonus", BadgeText: "Best Value"},
			domain.Style{
				Padding:         "20px",
				Margin:          "12px 16px",
				BackgroundColor: "#FFF7ED",
				BorderRadius:    "12px",
				TextAlign:       domain.AlignCenter,
			}, true
	case domain.ComponentFlashDeal:
		return &domain.FlashDealProps{ShowTimer: true, ButtonText: "Buy", Columns: 2},
			domain.Style{Padding: "0 12px"}, true
	}
	return nil, domain.Style{}, false
}
