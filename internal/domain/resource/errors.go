package resource

import "github.com/BruksfildServices01/booking-engine/internal/httperr"

var (
	ErrResourceNotFound = httperr.ErrBusiness("resource_not_found")
	ErrServiceNotFound  = httperr.ErrBusiness("service_not_found")
	ErrBlockNotFound    = httperr.ErrBusiness("block_not_found")
	ErrServiceInactive  = httperr.ErrBusiness("service_inactive")
)
