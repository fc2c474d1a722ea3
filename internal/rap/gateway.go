// Package rap implements the RAP builder (C3): identity allocation, header
// population with sender/recipient inversion, persistence, DER encoding and
// upload.
package rap

import "context"

// AllocatedIdentity is everything the DB gateway's RAP-creation stored
// procedure returns (§6).
type AllocatedIdentity struct {
	Filename         string
	RapSequenceNum   string
	MobileNetworkID  int64
	RoamingHubID     int64
	RoamingHubName   string
	CreationTimestamp string
	UtcOffset        string
	TapVersion       int
	TapRelease       int
	RapVersion       int
	RapRelease       int
	TapDecimalPlaces int
	RapFileID        int64
}

// FileStatus is the status value load_return_batch records alongside the
// persisted Return Batch.
type FileStatus int

const (
	StatusCreatedAndSent FileStatus = iota
)

// Gateway is the relational database gateway boundary: a stored procedure
// that allocates RAP identity, and an operation that records the created
// Return Batch (§6). Implemented by internal/rapgateway.
type Gateway interface {
	// AllocateReturnBatch invokes the RAP-creation stored procedure with
	// the recipient TAP code, a test-data flag, and the TAP file's
	// available timestamp.
	AllocateReturnBatch(ctx context.Context, recipientTAPCode string, isTest bool, tapAvailableTimestamp string) (AllocatedIdentity, error)

	// LoadReturnBatch records the emission of a Return Batch.
	LoadReturnBatch(ctx context.Context, rapFileID int64, rapFilename string, status FileStatus) error
}
