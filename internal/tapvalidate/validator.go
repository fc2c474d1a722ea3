package tapvalidate

import (
	"context"

	"github.com/Olernov/TAP3Loader/internal/asn1meta"
	"github.com/Olernov/TAP3Loader/internal/obslog"
	"github.com/Olernov/TAP3Loader/internal/probes"
	"github.com/Olernov/TAP3Loader/internal/rap"
	"github.com/Olernov/TAP3Loader/internal/tapmodel"
)

// Result is the validator's outcome alphabet (§4.4).
type Result int

const (
	TapValid Result = iota
	FatalError
	ValidationImpossible
	WrongAddressee
)

func (r Result) String() string {
	switch r {
	case TapValid:
		return "TapValid"
	case FatalError:
		return "FatalError"
	case ValidationImpossible:
		return "ValidationImpossible"
	case WrongAddressee:
		return "WrongAddressee"
	default:
		return "Unknown"
	}
}

// Validator is a deterministic, short-circuiting descent over a Data
// Interchange value. One instance validates one Data Interchange; it holds
// no state usable across calls except the RAP identity observed on the last
// Fatal finding (§4.4 "Side effects").
type Validator struct {
	Builder           *rap.Builder
	LocalNetworkCodes []string
	Logger            obslog.Logger

	rapFileID      int64
	rapSequenceNum string
}

// NewValidator constructs a Validator. rapFileID starts at its sentinel
// value 0 until a Fatal finding allocates a real identity (§8 scenario 6).
func NewValidator(builder *rap.Builder, localNetworkCodes []string, logger obslog.Logger) *Validator {
	return &Validator{Builder: builder, LocalNetworkCodes: localNetworkCodes, Logger: logger}
}

// RapFileID returns the RAP identity allocated by the last Fatal finding,
// or 0 if none has occurred yet.
func (v *Validator) RapFileID() int64 { return v.rapFileID }

// RapSequenceNum returns the RAP sequence number allocated by the last
// Fatal finding, or "" if none has occurred yet.
func (v *Validator) RapSequenceNum() string { return v.rapSequenceNum }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// buildContext constructs an Error Context List from a path of containers,
// level 1 first, using asn1meta rather than hardcoded tag numbers (§9).
func buildContext(path ...asn1meta.Container) []tapmodel.ErrorContextEntry {
	entries := make([]tapmodel.ErrorContextEntry, 0, len(path))
	for i, c := range path {
		entries = append(entries, tapmodel.ErrorContextEntry{PathItemID: asn1meta.TagNumber(c), ItemLevel: i + 1})
	}
	return entries
}

// emit hands a built Return Detail to the RAP builder and maps the build
// outcome to the validator's result alphabet: a persisted record is always
// FatalError even if encoding/upload subsequently failed (§7 class 2); a
// build that never reached persistence is ValidationImpossible.
func (v *Validator) emit(ctx context.Context, bci *tapmodel.BatchControlInfo, fileTypeIndicator *string, detail tapmodel.ReturnDetail, logMsg string) Result {
	v.Logger.Error(logMsg)

	result, err := v.Builder.Build(ctx, detail, deref(bci.Sender), deref(bci.Recipient), bciAvailableLocalTimestamp(bci), fileTypeIndicator)
	if result.Persisted {
		v.rapFileID = result.RapFileID
		v.rapSequenceNum = result.RapSequenceNum
		return FatalError
	}
	if err != nil {
		v.Logger.Error("RAP build failed before persistence", "error", err)
	}
	return ValidationImpossible
}

// bciAvailableLocalTimestamp is a small accessor: the RAP builder's
// contract only needs the local half of the available timestamp pair. It is
// a free function, not a method, since BatchControlInfo is declared in
// tapmodel and Go forbids adding methods to a type from another package.
func bciAvailableLocalTimestamp(bci *tapmodel.BatchControlInfo) string {
	if bci == nil || bci.FileAvailableTimeStamp == nil {
		return ""
	}
	return bci.FileAvailableTimeStamp.LocalTimeStamp
}

func (v *Validator) createTransferBatchFault(ctx context.Context, tb *tapmodel.TransferBatch, code int) Result {
	detail := &tapmodel.ReturnDetailFatal{
		FileSequenceNumber: deref(tb.BatchControlInfo.FileSequenceNumber),
		Detail: &tapmodel.TransferBatchError{
			ErrorDetail: []tapmodel.ErrorDetail{{ErrorCode: code, ErrorContext: buildContext(asn1meta.TransferBatch)}},
		},
	}
	return v.emit(ctx, tb.BatchControlInfo, tb.BatchControlInfo.FileTypeIndicator, detail, messageFor(code))
}

func (v *Validator) createBatchControlFault(ctx context.Context, tb *tapmodel.TransferBatch, code int) Result {
	detail := &tapmodel.ReturnDetailFatal{
		FileSequenceNumber: deref(tb.BatchControlInfo.FileSequenceNumber),
		Detail: &tapmodel.BatchControlError{
			// Struct-value copy: a borrowed view sharing the same pointer
			// fields as the input, not a deep clone (§9 design note (a)).
			BatchControlInfo: *tb.BatchControlInfo,
			ErrorDetail:      []tapmodel.ErrorDetail{{ErrorCode: code, ErrorContext: buildContext(asn1meta.TransferBatch, asn1meta.BatchControlInfo)}},
		},
	}
	return v.emit(ctx, tb.BatchControlInfo, tb.BatchControlInfo.FileTypeIndicator, detail, messageFor(code))
}

func (v *Validator) createAccountingInfoFault(ctx context.Context, tb *tapmodel.TransferBatch, code int, level3 *asn1meta.Container) Result {
	path := []asn1meta.Container{asn1meta.TransferBatch, asn1meta.AccountingInfo}
	if level3 != nil {
		path = append(path, *level3)
	}
	detail := &tapmodel.ReturnDetailFatal{
		FileSequenceNumber: deref(tb.BatchControlInfo.FileSequenceNumber),
		Detail: &tapmodel.AccountingInfoError{
			AccountingInfo: *tb.AccountingInfo,
			ErrorDetail:    []tapmodel.ErrorDetail{{ErrorCode: code, ErrorContext: buildContext(path...)}},
		},
	}
	return v.emit(ctx, tb.BatchControlInfo, tb.BatchControlInfo.FileTypeIndicator, detail, messageFor(code))
}

func (v *Validator) createNetworkInfoFault(ctx context.Context, tb *tapmodel.TransferBatch, code int) Result {
	detail := &tapmodel.ReturnDetailFatal{
		FileSequenceNumber: deref(tb.BatchControlInfo.FileSequenceNumber),
		Detail: &tapmodel.NetworkInfoError{
			NetworkInfo: *tb.NetworkInfo,
			ErrorDetail: []tapmodel.ErrorDetail{{ErrorCode: code, ErrorContext: buildContext(asn1meta.TransferBatch, asn1meta.NetworkInfo)}},
		},
	}
	return v.emit(ctx, tb.BatchControlInfo, tb.BatchControlInfo.FileTypeIndicator, detail, messageFor(code))
}

func (v *Validator) createAuditControlInfoFault(ctx context.Context, tb *tapmodel.TransferBatch, code int, level3 *asn1meta.Container) Result {
	path := []asn1meta.Container{asn1meta.TransferBatch, asn1meta.AuditControlInfo}
	if level3 != nil {
		path = append(path, *level3)
	}
	detail := &tapmodel.ReturnDetailFatal{
		FileSequenceNumber: deref(tb.BatchControlInfo.FileSequenceNumber),
		Detail: &tapmodel.AuditControlInfoError{
			AuditControlInfo: *tb.AuditControlInfo,
			ErrorDetail:      []tapmodel.ErrorDetail{{ErrorCode: code, ErrorContext: buildContext(path...)}},
		},
	}
	return v.emit(ctx, tb.BatchControlInfo, tb.BatchControlInfo.FileTypeIndicator, detail, messageFor(code))
}

// validateBatchControlInfo checks §4.4's Batch Control Info order:
// file_available_timestamp, specification_version_number,
// transfer_cutoff_timestamp.
func (v *Validator) validateBatchControlInfo(ctx context.Context, tb *tapmodel.TransferBatch) Result {
	bci := tb.BatchControlInfo
	if bci.FileAvailableTimeStamp == nil {
		return v.createBatchControlFault(ctx, tb, BatchControlFileAvailTimestampMissing)
	}
	if bci.SpecificationVersionNumber == nil {
		return v.createBatchControlFault(ctx, tb, BatchControlSpecVersionMissing)
	}
	if bci.TransferCutOffTimeStamp == nil {
		return v.createBatchControlFault(ctx, tb, BatchControlTransferCutoffMissing)
	}
	return TapValid
}

// validateAccountingInfo checks §4.4's Accounting Info order, including the
// per-row currency-conversion checks and duplicate-code detection.
func (v *Validator) validateAccountingInfo(ctx context.Context, tb *tapmodel.TransferBatch) Result {
	ai := tb.AccountingInfo
	if ai.LocalCurrency == nil {
		return v.createAccountingInfoFault(ctx, tb, AccountingLocalCurrencyMissing, nil)
	}
	if ai.TapDecimalPlaces == nil {
		return v.createAccountingInfoFault(ctx, tb, AccountingTapDecimalPlacesMissing, nil)
	}
	if len(ai.Taxation) == 0 && probes.ContainsTaxes(tb) {
		return v.createAccountingInfoFault(ctx, tb, AccountingTaxationMissing, nil)
	}
	if len(ai.Discounting) == 0 && probes.ContainsDiscounts(tb) {
		return v.createAccountingInfoFault(ctx, tb, AccountingDiscountingMissing, nil)
	}
	if len(ai.CurrencyConversionInfo) == 0 && probes.ContainsPositiveCharges(tb) {
		return v.createAccountingInfoFault(ctx, tb, AccountingCurrencyConversionMissing, nil)
	}

	if len(ai.CurrencyConversionInfo) > 0 {
		ccl := asn1meta.CurrencyConversionList
		seen := make(map[int]bool, len(ai.CurrencyConversionInfo))
		for _, row := range ai.CurrencyConversionInfo {
			if row.ExchangeRateCode == nil {
				return v.createAccountingInfoFault(ctx, tb, CurrencyConversionExRateCodeMissing, &ccl)
			}
			if row.NumberOfDecimalPlaces == nil {
				return v.createAccountingInfoFault(ctx, tb, CurrencyConversionNumOfDecPlacesMissing, &ccl)
			}
			if row.ExchangeRate == nil {
				return v.createAccountingInfoFault(ctx, tb, CurrencyConversionExchangeRateMissing, &ccl)
			}
			if seen[*row.ExchangeRateCode] {
				return v.createAccountingInfoFault(ctx, tb, CurrencyConversionExRateCodeDuplication, &ccl)
			}
			seen[*row.ExchangeRateCode] = true
		}
	}
	return TapValid
}

// validateNetworkInfo checks §4.4's Network Info order: utc_time_offset_info,
// rec_entity_info.
func (v *Validator) validateNetworkInfo(ctx context.Context, tb *tapmodel.TransferBatch) Result {
	ni := tb.NetworkInfo
	if len(ni.UtcTimeOffsetInfo) == 0 {
		return v.createNetworkInfoFault(ctx, tb, NetworkUtcTimeOffsetMissing)
	}
	if len(ni.RecEntityInfo) == 0 {
		return v.createNetworkInfoFault(ctx, tb, NetworkRecEntityMissing)
	}
	return TapValid
}

// validateAuditControlInfo checks §4.4's Audit Control Info order, then the
// call-count cross-check.
func (v *Validator) validateAuditControlInfo(ctx context.Context, tb *tapmodel.TransferBatch) Result {
	aci := tb.AuditControlInfo
	if aci.TotalCharge == nil {
		return v.createAuditControlInfoFault(ctx, tb, AuditControlTotalChargeMissing, nil)
	}
	if aci.TotalTaxValue == nil {
		return v.createAuditControlInfoFault(ctx, tb, AuditControlTotalTaxValueMissing, nil)
	}
	if aci.TotalDiscountValue == nil {
		return v.createAuditControlInfoFault(ctx, tb, AuditControlTotalDiscountMissing, nil)
	}
	if aci.CallEventDetailsCount == nil {
		return v.createAuditControlInfoFault(ctx, tb, AuditControlCallCountMissing, nil)
	}
	if *aci.CallEventDetailsCount != len(tb.CallEventDetails) {
		cedc := asn1meta.CallEventDetailsCount
		return v.createAuditControlInfoFault(ctx, tb, CallCountMismatch, &cedc)
	}
	return TapValid
}

// validateTransferBatch checks existence of the four top-level groups in
// order, then descends into each (§4.4).
func (v *Validator) validateTransferBatch(ctx context.Context, tb *tapmodel.TransferBatch) Result {
	if tb.BatchControlInfo == nil {
		// No Batch Control Info at all means no sender/recipient/sequence
		// either; the identity pre-gate below would also catch this, but
		// existence is checked first per the fixed order in §4.4.
		return ValidationImpossible
	}
	if tb.BatchControlInfo.Sender == nil || tb.BatchControlInfo.Recipient == nil || tb.BatchControlInfo.FileSequenceNumber == nil {
		v.Logger.Error("Sender, Recipient or FileSequenceNumber is missing in Batch Control Info. Unable to create RAP file.")
		return ValidationImpossible
	}

	if tb.AccountingInfo == nil {
		return v.createTransferBatchFault(ctx, tb, TransferBatchAccountingInfoMissing)
	}
	if tb.NetworkInfo == nil {
		return v.createTransferBatchFault(ctx, tb, TransferBatchNetworkInfoMissing)
	}
	if tb.AuditControlInfo == nil {
		return v.createTransferBatchFault(ctx, tb, TransferBatchAuditControlInfoMissing)
	}

	if result := v.validateBatchControlInfo(ctx, tb); result != TapValid {
		return result
	}
	if result := v.validateAccountingInfo(ctx, tb); result != TapValid {
		return result
	}
	if result := v.validateNetworkInfo(ctx, tb); result != TapValid {
		return result
	}
	if result := v.validateAuditControlInfo(ctx, tb); result != TapValid {
		return result
	}
	return TapValid
}

// validateNotification only runs the identity pre-gate (§4.4).
func (v *Validator) validateNotification(n *tapmodel.Notification) Result {
	if n.Sender == nil || n.Recipient == nil || n.FileSequenceNumber == nil {
		v.Logger.Error("Sender, Recipient or FileSequenceNumber is missing in Notification. Unable to create RAP file.")
		return ValidationImpossible
	}
	return TapValid
}
