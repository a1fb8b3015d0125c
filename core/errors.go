package core

import "errors"

var (
	// ErrInvalidConfig reports a construction parameter outside its legal
	// range. It is fatal to the instance being built; reconstruction with a
	// corrected configuration is the only recovery.
	ErrInvalidConfig = errors.New("statfilter: invalid configuration")

	// ErrInvalidInput reports a non-finite measurement. The failing call
	// leaves filter state exactly as it was before the call.
	ErrInvalidInput = errors.New("statfilter: invalid input")

	// ErrInsufficientData reports a query made before enough observations
	// exist to answer it. Feeding more data clears the condition.
	ErrInsufficientData = errors.New("statfilter: insufficient data")
)
