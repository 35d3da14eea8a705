package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	ErrValidation      = fmt.Errorf("invalid answer")
	ErrSchemaViolation = fmt.Errorf("answers do not satisfy the field schema")
	ErrScalerMismatch  = fmt.Errorf("scaler columns do not match the numeric features")
	ErrColumnMismatch  = fmt.Errorf("feature vector columns do not match the model")
	ErrUnknownColumn   = fmt.Errorf("model declares a column no field can produce")
	ErrArtifactLoad    = fmt.Errorf("artifact cannot be loaded")

	ErrSessionBusy         = fmt.Errorf("session inbox is full")
	ErrOrchestratorStopped = fmt.Errorf("orchestrator is stopped")
	ErrSessionClosed       = fmt.Errorf("session no longer accepts answers")
)
