package domain

import (
	"encoding/json"
	"fmt"

	"github.com/brunoga/deep"
)

// ComponentType is the closed set of node variants a page can hold.
type ComponentType string

const (
	ComponentBanner       ComponentType = "banner"
	ComponentProductCard  ComponentType = "product-card"
	ComponentProductGrid  ComponentType = "product-grid"
	ComponentTextBlock    ComponentType = "text-block"
	ComponentImageBlock   ComponentType = "image-block"
	ComponentButton       ComponentType = "button"
	ComponentCoupon       ComponentType = "coupon"
	ComponentCountdown    ComponentType = "countdown"
	ComponentDivider      ComponentType = "divider"
	ComponentSpacer       ComponentType = "spacer"
	ComponentNavBar       ComponentType = "nav-bar"
	ComponentPriceTable   ComponentType = "price-table"
	ComponentProductList  ComponentType = "product-list"
	ComponentPromoSection ComponentType = "promo-section"
	ComponentContactBar   ComponentType = "contact-bar"
	ComponentRechargeCard ComponentType = "recharge-card"
	ComponentFlashDeal    ComponentType = "flash-deal"
)

// ComponentTypes lists every variant in palette order.
var ComponentTypes = []ComponentType{
	ComponentBanner,
	ComponentProductCard,
	ComponentProductGrid,
	ComponentTextBlock,
	ComponentImageBlock,
	ComponentButton,
	ComponentCoupon,
	ComponentCountdown,
	ComponentDivider,
	ComponentSpacer,
	ComponentNavBar,
	ComponentPriceTable,
	ComponentProductList,
	ComponentPromoSection,
	ComponentContactBar,
	ComponentRechargeCard,
	ComponentFlashDeal,
}

// Valid reports whether t is one of the known variants.
func (t ComponentType) Valid() bool {
	_, ok := propsFactories[t]
	return ok
}

// LoadPriority is a rendering hint for the public page.
type LoadPriority string

const (
	LoadCritical LoadPriority = "critical"
	LoadLazy     LoadPriority = "lazy"
	LoadIdle     LoadPriority = "idle"
)

// BindingKind says what a DataBinding refers to in the product catalog.
type BindingKind string

const (
	BindingProduct     BindingKind = "product"
	BindingProductList BindingKind = "product-list"
	BindingCustom      BindingKind = "custom"
)

// DataBinding references catalog items by id. The node does not own them.
type DataBinding struct {
	Type       BindingKind `json:"type"`
	ProductIDs []string    `json:"productIds,omitempty"`
}

type EventAction string

const (
	ActionLink     EventAction = "link"
	ActionPopup    EventAction = "popup"
	ActionScrollTo EventAction = "scroll-to"
)

// EventConfig describes what happens when a node is clicked.
type EventConfig struct {
	Trigger   string            `json:"trigger"` // always "click"
	Action    EventAction       `json:"action"`
	URL       string            `json:"url,omitempty"`
	TargetID  string            `json:"targetId,omitempty"`
	UTMParams map[string]string `json:"utmParams,omitempty"`
}

// ComponentNode is one element on the page.
type ComponentNode struct {
	ID           string        `json:"id"`
	Type         ComponentType `json:"type"`
	Name         string        `json:"name,omitempty"`
	Props        Props         `json:"props"`
	Style        Style         `json:"style"`
	DataBinding  *DataBinding  `json:"dataBinding,omitempty"`
	Events       []EventConfig `json:"events,omitempty"`
	LoadPriority LoadPriority  `json:"loadPriority"`
	Visible      bool          `json:"visible"`
	Locked       bool          `json:"locked"`
}

// DisplayName returns the node name, falling back to its type.
func (n ComponentNode) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return string(n.Type)
}

type componentNodeJSON struct {
	ID           string          `json:"id"`
	Type         ComponentType   `json:"type"`
	Name         string          `json:"name,omitempty"`
	Props        json.RawMessage `json:"props"`
	Style        Style           `json:"style"`
	DataBinding  *DataBinding    `json:"dataBinding,omitempty"`
	Events       []EventConfig   `json:"events,omitempty"`
	LoadPriority LoadPriority    `json:"loadPriority"`
	Visible      *bool           `json:"visible"`
	Locked       bool            `json:"locked"`
}

// UnmarshalJSON decodes props into the record selected by the type tag.
// A missing visible flag decodes as true and a missing load priority as lazy.
func (n *ComponentNode) UnmarshalJSON(data []byte) error {
	var raw componentNodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.Type.Valid() {
		return fmt.Errorf("unknown component type %q", raw.Type)
	}
	props, err := DecodeProps(raw.Type, raw.Props)
	if err != nil {
		return fmt.Errorf("component %s: %w", raw.ID, err)
	}

	*n = ComponentNode{
		ID:           raw.ID,
		Type:         raw.Type,
		Name:         raw.Name,
		Props:        props,
		Style:        raw.Style,
		DataBinding:  raw.DataBinding,
		Events:       raw.Events,
		LoadPriority: raw.LoadPriority,
		Visible:      raw.Visible == nil || *raw.Visible,
		Locked:       raw.Locked,
	}
	if n.LoadPriority == "" {
		n.LoadPriority = LoadLazy
	}
	return nil
}

// NodePatch holds the top-level node fields an update may replace.
// Nil fields are left untouched. ID and Type are never patchable.
type NodePatch struct {
	Name         *string        `json:"name,omitempty"`
	Props        Props          `json:"-"`
	Style        *Style         `json:"style,omitempty"`
	DataBinding  *DataBinding   `json:"dataBinding,omitempty"`
	Events       *[]EventConfig `json:"events,omitempty"`
	LoadPriority *LoadPriority  `json:"loadPriority,omitempty"`
	Visible      *bool          `json:"visible,omitempty"`
	Locked       *bool          `json:"locked,omitempty"`
}

// Apply writes the patch onto n. A Props value of a different variant is ignored.
func (p NodePatch) Apply(n *ComponentNode) {
	if p.Name != nil {
		n.Name = *p.Name
	}
	if p.Props != nil && p.Props.ComponentType() == n.Type {
		n.Props = p.Props
	}
	if p.Style != nil {
		n.Style = *p.Style
	}
	if p.DataBinding != nil {
		n.DataBinding = p.DataBinding
	}
	if p.Events != nil {
		n.Events = *p.Events
	}
	if p.LoadPriority != nil {
		n.LoadPriority = *p.LoadPriority
	}
	if p.Visible != nil {
		n.Visible = *p.Visible
	}
	if p.Locked != nil {
		n.Locked = *p.Locked
	}
}

// Clone returns a deep copy of n.
func (n ComponentNode) Clone() ComponentNode {
	c, err := deep.Copy(n)
	if err != nil {
		panic(fmt.Sprintf("clone component %s: %v", n.ID, err))
	}
	return c
}
