package service

import (
	"context"

	"github.com/sangkips/festkasse-api/internal/domain/entity"
	"github.com/sangkips/festkasse-api/internal/domain/repository"
)

// FallbackGroupID is the pickup station for items nothing else routes
const FallbackGroupID = "grp_buffet"

// CatalogSnapshot is a read-only view of station routing taken once per issuance
type CatalogSnapshot struct {
	productGroups    map[string]string
	categoryDefaults map[string]string
	groupNames       map[string]string
}

// NewCatalogSnapshot indexes the given catalog rows. Inactive products still route.
func NewCatalogSnapshot(groups []entity.PickupGroup, categories []entity.Category, products []entity.Product) *CatalogSnapshot {
	snapshot := &CatalogSnapshot{
		productGroups:    make(map[string]string, len(products)),
		categoryDefaults: make(map[string]string, len(categories)),
		groupNames:       make(map[string]string, len(groups)),
	}

	for _, g := range groups {
		snapshot.groupNames[g.ID] = g.Name
	}
	for _, c := range categories {
		snapshot.categoryDefaults[c.ID] = FallbackGroupID
		if c.DefaultGroupID != nil && *c.DefaultGroupID != "" {
			snapshot.categoryDefaults[c.ID] = *c.DefaultGroupID
		}
	}
	for _, p := range products {
		switch {
		case p.GroupID != nil && *p.GroupID != "":
			snapshot.productGroups[p.ID] = *p.GroupID
		default:
			if def, ok := snapshot.categoryDefaults[p.CategoryID]; ok {
				snapshot.productGroups[p.ID] = def
			} else {
				snapshot.productGroups[p.ID] = FallbackGroupID
			}
		}
	}

	return snapshot
}

// LoadCatalogSnapshot reads the routing tables through repos
func LoadCatalogSnapshot(ctx context.Context, repos repository.TxRepositories) (*CatalogSnapshot, error) {
	groups, err := repos.Groups.List(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := repos.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	products, err := repos.Products.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	return NewCatalogSnapshot(groups, categories, products), nil
}

// ResolveGroup returns the pickup station for an item: the product's own
// group, else its category default, else the item's category default, else
// FallbackGroupID.
func (c *CatalogSnapshot) ResolveGroup(productID, categoryID string) string {
	if group, ok := c.productGroups[productID]; ok {
		return group
	}
	if group, ok := c.categoryDefaults[categoryID]; ok {
		return group
	}
	return FallbackGroupID
}

// GroupName returns the display name of a station, or the id itself when the
// station is unknown.
func (c *CatalogSnapshot) GroupName(groupID string) string {
	if name, ok := c.groupNames[groupID]; ok {
		return name
	}
	return groupID
}
