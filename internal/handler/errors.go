package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/cuentix/inventory_api/internal/confirm"
	"github.com/cuentix/inventory_api/internal/publish"
	"github.com/cuentix/inventory_api/internal/utils"
)

// handleServiceError maps service-layer errors onto the response envelope.
// Anything unrecognized is a 500 with a generic message so internals never
// leak.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrInvalidPool):
		utils.Error(c, 400, err.Error(), "Unknown account pool")
	case errors.Is(err, utils.ErrInvalidCategory):
		utils.Error(c, 400, err.Error(), "Unknown category")
	case errors.Is(err, utils.ErrInvalidStatus):
		utils.Error(c, 400, err.Error(), "Unknown account status")
	case errors.Is(err, utils.ErrInvalidAmount):
		utils.Error(c, 400, err.Error(), "Amount must be a positive number")
	case errors.Is(err, utils.ErrInvalidPrice):
		utils.Error(c, 400, err.Error(), "Every unit needs a positive price")
	case errors.Is(err, utils.ErrNothingToPublish):
		utils.Error(c, 400, err.Error(), "Nothing selected to publish")
	case errors.Is(err, utils.ErrUnitNotSellable):
		utils.Error(c, 400, err.Error(), "Unit is not sellable")
	case errors.Is(err, utils.ErrStatusNotEditable):
		utils.Error(c, 400, err.Error(), "Account status does not allow this operation")
	case errors.Is(err, utils.ErrAccountNotFound):
		utils.Error(c, 404, err.Error(), "Account not found")
	case errors.Is(err, utils.ErrListingNotFound):
		utils.Error(c, 404, err.Error(), "Listing not found")
	case errors.Is(err, utils.ErrOrderNotFound):
		utils.Error(c, 404, err.Error(), "Order not found")
	case errors.Is(err, utils.ErrUserNotFound):
		utils.Error(c, 404, err.Error(), "User not found")
	case errors.Is(err, utils.ErrDuplicateUser):
		utils.Error(c, 409, err.Error(), "A user with that email already exists")
	case errors.Is(err, utils.ErrInvalidCredentials):
		utils.Error(c, 401, err.Error(), "Invalid email or password")
	case errors.Is(err, publish.ErrDraftNotFound):
		utils.Error(c, 404, "DRAFT_NOT_FOUND", "Publish draft not found or expired")
	case errors.Is(err, publish.ErrCannotProceed):
		utils.Error(c, 422, "DRAFT_INCOMPLETE", "Draft configuration incomplete")
	case errors.Is(err, publish.ErrWrongStep):
		utils.Error(c, 409, "WRONG_STEP", "Operation not valid in the draft's current step")
	case errors.Is(err, confirm.ErrNothingStaged):
		utils.Error(c, 404, "NOTHING_STAGED", "No pending action to confirm")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
