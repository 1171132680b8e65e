package provider

import (
	"github.com/m04kA/SMC-InstantBookingService/pkg/dbmetrics"
)

type DBExecutor = dbmetrics.DBExecutor
