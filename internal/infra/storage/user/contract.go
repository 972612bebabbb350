package user

import "github.com/sportafit/booking-service/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
