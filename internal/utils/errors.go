package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidPool        = errors.New("INVALID_POOL")
	ErrInvalidCategory    = errors.New("INVALID_CATEGORY")
	ErrInvalidStatus      = errors.New("INVALID_STATUS")
	ErrAccountNotFound    = errors.New("ACCOUNT_NOT_FOUND")
	ErrListingNotFound    = errors.New("LISTING_NOT_FOUND")
	ErrOrderNotFound      = errors.New("ORDER_NOT_FOUND")
	ErrUserNotFound       = errors.New("USER_NOT_FOUND")
	ErrDuplicateUser      = errors.New("DUPLICATE_USER")
	ErrInvalidAmount      = errors.New("INVALID_AMOUNT")
	ErrNothingToPublish   = errors.New("NOTHING_TO_PUBLISH")
	ErrInvalidPrice       = errors.New("INVALID_PRICE")
	ErrStatusNotEditable  = errors.New("STATUS_NOT_EDITABLE")
	ErrUnitNotSellable    = errors.New("UNIT_NOT_SELLABLE")
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
)
