package dougs

import (
	"context"
	"fmt"
	"net/url"
)

// GetMe returns the authenticated user and their companies.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	return getOne[User](ctx, c, "/users/me", nil)
}

// GetCars lists the cars registered for mileage allowances.
func (c *Client) GetCars(ctx context.Context, companyID int64) ([]Car, error) {
	return getList[Car](ctx, c, companyPath(companyID, "cars"), nil)
}

// GetCategories lists accounting categories of the given type.
// An empty search returns every category.
func (c *Client) GetCategories(ctx context.Context, companyID int64, categoryType, search string) ([]Category, error) {
	query := url.Values{}
	query.Set("full", "true")
	query.Set("type", categoryType)
	if search != "" {
		query.Set("search", search)
	}
	return getList[Category](ctx, c, companyPath(companyID, "categories"), query)
}

// GetPartners lists the company's partners (associates, managers).
func (c *Client) GetPartners(ctx context.Context, companyID int64) ([]Partner, error) {
	return getList[Partner](ctx, c, companyPath(companyID, "partners"), nil)
}

func companyPath(companyID int64, resource string) string {
	return fmt.Sprintf("/companies/%d/%s", companyID, resource)
}
