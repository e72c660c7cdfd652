package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Props is the variant-specific attribute record of a node. Each ComponentType
// has exactly one implementation; switch on the concrete type to dispatch.
type Props interface {
	ComponentType() ComponentType
}

type BannerProps struct {
	Images   []string `json:"images"`
	Autoplay bool     `json:"autoplay"`
	Interval int      `json:"interval"` // milliseconds
}

// ProductCardProps is empty: the card renders the product in its DataBinding.
type ProductCardProps struct{}

type ProductGridProps struct {
	Columns int `json:"columns"`
	Gap     int `json:"gap"`
}

type TextBlockProps struct {
	Content string `json:"content"`
	Level   string `json:"level"` // h1, h2, h3 or p
}

type ImageBlockProps struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

type ButtonProps struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

type CouponProps struct {
	Code        string `json:"code"`
	Discount    string `json:"discount"`
	Description string `json:"description"`
}

type CountdownProps struct {
	EndTime string `json:"endTime"` // RFC 3339
	Label   string `json:"label"`
}

type DividerProps struct{}

type SpacerProps struct {
	Height int `json:"height"`
}

type NavBarProps struct {
	Title           string `json:"title"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
}

// PriceTier is one "spend X save Y" row of a price table.
type PriceTier struct {
	Threshold float64 `json:"threshold"`
	Discount  float64 `json:"discount"`
	Label     string  `json:"label,omitempty"`
}

type PriceTableProps struct {
	Title    string      `json:"title"`
	Currency string      `json:"currency"`
	Tiers    []PriceTier `json:"tiers"`
}

// ProductListItem is a manually entered row; when a list has none the
// renderer falls back to the node's DataBinding.
type ProductListItem struct {
	Name          string  `json:"name"`
	Spec          string  `json:"spec"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"originalPrice,omitempty"`
	Image         string  `json:"image,omitempty"`
}

type ProductListProps struct {
	Title     string            `json:"title"`
	Items     []ProductListItem `json:"items"`
	ShowIndex bool              `json:"showIndex"`
}

type PromoSectionProps struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	DecorStyle  string `json:"decorStyle"`
	AccentColor string `json:"accentColor"`
}

type ContactBarProps struct {
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	QRCodeURL string `json:"qrCodeUrl"`
	WechatID  string `json:"wechatId"`
}

type RechargeCardProps struct {
	PayAmount float64 `json:"payAmount"`
	GetAmount float64 `json:"getAmount"`
	Label     string  `json:"label"`
	BadgeText string  `json:"badgeText"`
}

type FlashDealProps struct {
	ShowTimer  bool   `json:"showTimer"`
	ButtonText string `json:"buttonText"`
	Columns    int    `json:"columns"`
	EndTime    string `json:"endTime,omitempty"`
}

func (*BannerProps) ComponentType() ComponentType       { return ComponentBanner }
func (*ProductCardProps) ComponentType() ComponentType  { return ComponentProductCard }
func (*ProductGridProps) ComponentType() ComponentType  { return ComponentProductGrid }
func (*TextBlockProps) ComponentType() ComponentType    { return ComponentTextBlock }
func (*ImageBlockProps) ComponentType() ComponentType   { return ComponentImageBlock }
func (*ButtonProps) ComponentType() ComponentType       { return ComponentButton }
func (*CouponProps) ComponentType() ComponentType       { return ComponentCoupon }
func (*CountdownProps) ComponentType() ComponentType    { return ComponentCountdown }
func (*DividerProps) ComponentType() ComponentType      { return ComponentDivider }
func (*SpacerProps) ComponentType() ComponentType       { return ComponentSpacer }
func (*NavBarProps) ComponentType() ComponentType       { return ComponentNavBar }
func (*PriceTableProps) ComponentType() ComponentType   { return ComponentPriceTable }
func (*ProductListProps) ComponentType() ComponentType  { return ComponentProductList }
func (*PromoSectionProps) ComponentType() ComponentType { return ComponentPromoSection }
func (*ContactBarProps) ComponentType() ComponentType   { return ComponentContactBar }
func (*RechargeCardProps) ComponentType() ComponentType { return ComponentRechargeCard }
func (*FlashDealProps) ComponentType() ComponentType    { return ComponentFlashDeal }

var propsFactories = map[ComponentType]func() Props{
	ComponentBanner:       func() Props { return &BannerProps{} },
	ComponentProductCard:  func() Props { return &ProductCardProps{} },
	ComponentProductGrid:  func() Props { return &ProductGridProps{} },
	ComponentTextBlock:    func() Props { return &TextBlockProps{} },
	ComponentImageBlock:   func() Props { return &ImageBlockProps{} },
	ComponentButton:       func() Props { return &ButtonProps{} },
	ComponentCoupon:       func() Props { return &CouponProps{} },
	ComponentCountdown:    func() Props { return &CountdownProps{} },
	ComponentDivider:      func() Props { return &DividerProps{} },
	ComponentSpacer:       func() Props { return &SpacerProps{} },
	ComponentNavBar:       func() Props { return &NavBarProps{} },
	ComponentPriceTable:   func() Props { return &PriceTableProps{} },
	ComponentProductList:  func() Props { return &ProductListProps{} },
	ComponentPromoSection: func() Props { return &PromoSectionProps{} },
	ComponentContactBar:   func() Props { return &ContactBarProps{} },
	ComponentRechargeCard: func() Props { return &RechargeCardProps{} },
	ComponentFlashDeal:    func() Props { return &FlashDealProps{} },
}

// NewProps returns an empty record for t, or nil for an unknown type.
func NewProps(t ComponentType) Props {
	f, ok := propsFactories[t]
	if !ok {
		return nil
	}
	return f()
}

// DecodeProps decodes raw JSON into the record for t. Unknown keys are ignored
// and an empty or null payload yields the zero record.
func DecodeProps(t ComponentType, raw []byte) (Props, error) {
	p := NewProps(t)
	if p == nil {
		return nil, fmt.Errorf("unknown component type %q", t)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return p, nil
	}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("decode %s props: %w", t, err)
	}
	return p, nil
}

// MergeProps overlays fields onto p key by key and returns a new record; p is
// not modified. Keys the variant does not declare, or whose value has the wrong
// shape, are skipped and reported in rejected (sorted).
func MergeProps(p Props, fields map[string]any) (merged Props, rejected []string, err error) {
	if p == nil {
		return nil, nil, fmt.Errorf("merge props: no props record")
	}
	t := p.ComponentType()
	base, err := json.Marshal(p)
	if err != nil {
		return nil, nil, fmt.Errorf("encode %s props: %w", t, err)
	}
	current := map[string]any{}
	if err := json.Unmarshal(base, &current); err != nil {
		return nil, nil, fmt.Errorf("decode %s props: %w", t, err)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		prev, had := current[k]
		current[k] = fields[k]
		if _, err := decodeStrict(t, current); err != nil {
			if had {
				current[k] = prev
			} else {
				delete(current, k)
			}
			rejected = append(rejected, k)
		}
	}

	merged, err = decodeStrict(t, current)
	if err != nil {
		return nil, rejected, err
	}
	return merged, rejected, nil
}

func decodeStrict(t ComponentType, fields map[string]any) (Props, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	p := NewProps(t)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(p); err != nil {
		return nil, err
	}
	return p, nil
}
