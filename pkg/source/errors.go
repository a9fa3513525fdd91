package source

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSourceClosed    = errors.New("product source is closed")

	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redis connection is not ready")

	ErrFailedToParseDBConfig    = errors.New("failed to parse db config")
	ErrFailedToOpenDBConnection = errors.New("failed to open db connection")
	ErrFailedToApplyMigrations  = errors.New("failed to apply migrations")

	ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")

	ErrFailedToLoadAWSConfig = errors.New("failed to load aws config")

	ErrFailedToLoadProductFile = errors.New("failed to load product file")
)
