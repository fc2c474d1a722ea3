package tapmodel

// ReturnBatch is the outbound RAP aggregate synthesised on a Fatal finding.
type ReturnBatch struct {
	RapBatchControlInfo RapBatchControlInfo
	ReturnDetails       []ReturnDetail
	RapAuditControlInfo RapAuditControlInfo
}

// RapBatchControlInfo is the Return Batch header. Sender/Recipient are the
// input Batch Control Info's Recipient/Sender, swapped exactly once (§8).
type RapBatchControlInfo struct {
	Sender                        string
	Recipient                     string
	RapFileSequenceNumber         string
	RapFileCreationTimeStamp      TimestampWithOffset
	RapFileAvailableTimeStamp     TimestampWithOffset
	TapDecimalPlaces              *int
	RapSpecificationVersionNumber int
	RapReleaseVersionNumber       int
	SpecificationVersionNumber    *int
	ReleaseVersionNumber          *int
	FileTypeIndicator             *string
}

// RapAuditControlInfo is always built with TotalSevereReturnValue = 0 and
// ReturnDetailsCount = 1 (§3, §8) by the current Fatal-only core.
type RapAuditControlInfo struct {
	TotalSevereReturnValue int64
	ReturnDetailsCount     int
}

// ReturnDetail is the tagged variant of a single returned finding. The
// current core only ever constructs ReturnDetailFatal; ReturnDetailSevere
// exists so the type is reachable per §9's instruction to model Severe
// alongside Fatal even while stubbed.
type ReturnDetail interface {
	isReturnDetail()
}

// ReturnDetailFatal rejects the whole batch. It carries the originating
// file_sequence_number plus exactly one populated FatalErrorDetail variant.
type ReturnDetailFatal struct {
	FileSequenceNumber string
	Detail             FatalErrorDetail
}

func (*ReturnDetailFatal) isReturnDetail() {}

// ReturnDetailSevere rejects an individual record rather than the whole
// batch. TD.52 requires Operator Specific Information for IOT errors here;
// the core does not populate this path.
// TODO: fill OperatorSpecInformation for Severe/IOT findings (TD.52).
type ReturnDetailSevere struct {
	FileSequenceNumber      string
	OperatorSpecInformation []string
}

func (*ReturnDetailSevere) isReturnDetail() {}

// FatalErrorDetail is the tagged variant selecting which sub-tree a Fatal
// finding originated in.
type FatalErrorDetail interface {
	isFatalErrorDetail()
}

// TransferBatchError reports a finding against the Transfer Batch itself
// (a missing top-level group). There is no sub-tree to copy at this level.
type TransferBatchError struct {
	ErrorDetail []ErrorDetail
}

func (*TransferBatchError) isFatalErrorDetail() {}

// BatchControlError carries a shallow copy of the offending Batch Control
// Info alongside the error detail list. The copy is a plain Go struct-value
// copy: it duplicates the pointer fields, not the pointed-to data, so it is
// a borrowed view with no ownership to release (§9 design note (a), option
// (a) - Go's garbage collector makes the null-after-copy dance the original
// C++ performs unnecessary).
type BatchControlError struct {
	BatchControlInfo BatchControlInfo
	ErrorDetail      []ErrorDetail
}

func (*BatchControlError) isFatalErrorDetail() {}

// AccountingInfoError carries a shallow copy of the offending Accounting
// Info.
type AccountingInfoError struct {
	AccountingInfo AccountingInfo
	ErrorDetail    []ErrorDetail
}

func (*AccountingInfoError) isFatalErrorDetail() {}

// NetworkInfoError carries a shallow copy of the offending Network Info.
type NetworkInfoError struct {
	NetworkInfo NetworkInfo
	ErrorDetail []ErrorDetail
}

func (*NetworkInfoError) isFatalErrorDetail() {}

// AuditControlInfoError carries a shallow copy of the offending Audit
// Control Info.
type AuditControlInfoError struct {
	AuditControlInfo AuditControlInfo
	ErrorDetail      []ErrorDetail
}

func (*AuditControlInfoError) isFatalErrorDetail() {}

// ErrorDetail is one reported fault: a TD.57/TD.32 error code plus the path
// from the Transfer Batch root to the offending item.
type ErrorDetail struct {
	ErrorCode    int
	ErrorContext []ErrorContextEntry
}

// ErrorContextEntry is one (path_item_id, item_level) pair. ItemLevel is
// 1-based depth; PathItemID is the ASN.1 tag number of the container at
// that level (§3, §9).
type ErrorContextEntry struct {
	PathItemID int
	ItemLevel  int
}
