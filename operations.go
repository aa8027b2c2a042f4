package dougs

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrymomot/dougs/pkg/logger"
	"github.com/dmitrymomot/dougs/pkg/schema"
)

// RegisterMileageAllowance creates a mileage allowance operation.
func (c *Client) RegisterMileageAllowance(ctx context.Context, companyID int64, m MileageInfos) (*Operation, error) {
	if err := schema.Struct(m); err != nil {
		return nil, err
	}
	return c.createOperation(ctx, companyID, BuildMileageOperation(m))
}

// RegisterExpense creates an expense operation, zeroing VAT when an
// exemption is requested.
func (c *Client) RegisterExpense(ctx context.Context, companyID int64, e ExpenseInfos) (*Operation, error) {
	if err := schema.Struct(e); err != nil {
		return nil, err
	}
	return c.createOperation(ctx, companyID, BuildExpenseOperation(e))
}

func (c *Client) createOperation(ctx context.Context, companyID int64, op NewOperation) (*Operation, error) {
	data, err := c.doJSON(ctx, http.MethodPost, companyPath(companyID, "operations"), nil, op)
	if err != nil {
		return nil, err
	}
	created, err := decodeOne[Operation](data)
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "operation created",
		logger.CompanyID(companyID),
		slog.Int64("operation_id", created.ID),
		slog.String("type", op.Type),
	)
	return created, nil
}

// ListOperations returns a page of the company's operations.
func (c *Client) ListOperations(ctx context.Context, companyID int64, params ListOperationsParams) ([]Operation, error) {
	if err := schema.Struct(params); err != nil {
		return nil, err
	}
	query := url.Values{}
	if params.Offset > 0 {
		query.Set("offset", strconv.Itoa(params.Offset))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	return getList[Operation](ctx, c, companyPath(companyID, "operations"), query)
}

// GetOperation returns a single operation.
func (c *Client) GetOperation(ctx context.Context, companyID, operationID int64) (*Operation, error) {
	return getOne[Operation](ctx, c, operationPath(companyID, operationID), nil)
}

// UpdateOperation fetches the operation, merges patch into it with
// MergeDocument and submits the result as the new state. Fields the client
// does not model are sent back unchanged.
func (c *Client) UpdateOperation(ctx context.Context, companyID, operationID int64, patch OperationPatch) (*Operation, error) {
	path := operationPath(companyID, operationID)

	data, err := c.doJSON(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	if _, err := schema.Decode[Operation](data); err != nil {
		return nil, err
	}
	current, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}

	data, err = c.doJSON(ctx, http.MethodPost, path, nil, MergeDocument(current, patch))
	if err != nil {
		return nil, err
	}
	return decodeOne[Operation](data)
}

// ValidateOperation marks the operation as validated.
func (c *Client) ValidateOperation(ctx context.Context, companyID, operationID int64) (*Operation, error) {
	return c.UpdateOperation(ctx, companyID, operationID, OperationPatch{"validated": true})
}

// InvalidateOperation reverts a validated operation to draft.
func (c *Client) InvalidateOperation(ctx context.Context, companyID, operationID int64) (*Operation, error) {
	return c.UpdateOperation(ctx, companyID, operationID, OperationPatch{"validated": false})
}

// DeleteOperation removes the operation. The response body is ignored.
func (c *Client) DeleteOperation(ctx context.Context, companyID, operationID int64) error {
	if _, err := c.doJSON(ctx, http.MethodDelete, operationPath(companyID, operationID), nil, nil); err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "operation deleted",
		logger.CompanyID(companyID),
		slog.Int64("operation_id", operationID),
	)
	return nil
}

func operationPath(companyID, operationID int64) string {
	return fmt.Sprintf("/companies/%d/operations/%d", companyID, operationID)
}
