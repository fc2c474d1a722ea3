package codec

import (
	"encoding/asn1"
	"fmt"

	"github.com/Olernov/TAP3Loader/internal/tapmodel"
)

// DER is the outbound ASN.1 DER encode boundary (C3 step 5). It is the only
// place tapmodel.ReturnBatch values are converted to bytes; the upstream
// BER/DER decoder that produces a DataInterchange value is a separate,
// out-of-scope collaborator (§1).
type DER struct{}

// wire mirrors the subset of TD.32's ReturnBatch ASN.1 schema the current
// core populates, expressed as explicitly-tagged encoding/asn1 struct
// fields. Depth beyond what the six end-to-end scenarios and the copied
// shallow contexts exercise is out of proportion to this core (see
// DESIGN.md's Open Question decision on schema depth).
type wireTimestamp struct {
	LocalTimeStamp string `asn1:"utf8"`
	UtcTimeOffset  string `asn1:"utf8"`
}

type wireErrorContextEntry struct {
	PathItemID int
	ItemLevel  int
}

type wireErrorDetail struct {
	ErrorCode    int
	ErrorContext []wireErrorContextEntry
}

// wireBatchControlInfoCopy mirrors the fields of the shallow-copied
// BatchControlInfo that BatchControlError carries (§3, §9). Optional
// pointer fields are omitted from the encoding when nil, exactly as they
// were absent from the offending Batch Control Info.
type wireBatchControlInfoCopy struct {
	Sender                     *string        `asn1:"utf8,optional"`
	Recipient                  *string        `asn1:"utf8,optional"`
	FileSequenceNumber         *string        `asn1:"utf8,optional"`
	FileAvailableTimeStamp     *wireTimestamp `asn1:"optional"`
	TransferCutOffTimeStamp    *wireTimestamp `asn1:"optional"`
	SpecificationVersionNumber *int           `asn1:"optional"`
	FileTypeIndicator          *string        `asn1:"utf8,optional"`
}

// wireAccountingInfoCopy mirrors the offending Accounting Info that
// AccountingInfoError carries.
type wireAccountingInfoCopy struct {
	LocalCurrency    *string `asn1:"utf8,optional"`
	TapDecimalPlaces *int    `asn1:"optional"`
}

// wireNetworkInfoCopy mirrors the offending Network Info that
// NetworkInfoError carries: only the presence counts matter to the checks
// that raise it.
type wireNetworkInfoCopy struct {
	UtcTimeOffsetInfoCount int
	RecEntityInfoCount     int
}

// wireAuditControlInfoCopy mirrors the offending Audit Control Info that
// AuditControlInfoError carries.
type wireAuditControlInfoCopy struct {
	TotalCharge           *int64 `asn1:"optional"`
	TotalTaxValue         *int64 `asn1:"optional"`
	TotalDiscountValue    *int64 `asn1:"optional"`
	CallEventDetailsCount *int   `asn1:"optional"`
}

// wireReturnDetail carries the fault's own error detail list plus whichever
// one of the four copied-context structs applies; the other three are left
// nil and omitted from the encoding, giving the same effect as TD.32's
// CHOICE construct.
type wireReturnDetail struct {
	FileSequenceNumber string `asn1:"utf8"`
	ErrorDetail        []wireErrorDetail

	BatchControlInfo *wireBatchControlInfoCopy `asn1:"optional"`
	AccountingInfo   *wireAccountingInfoCopy   `asn1:"optional"`
	NetworkInfo      *wireNetworkInfoCopy      `asn1:"optional"`
	AuditControlInfo *wireAuditControlInfoCopy `asn1:"optional"`
}

type wireReturnBatch struct {
	Sender                        string  `asn1:"utf8"`
	Recipient                     string  `asn1:"utf8"`
	RapFileSequenceNumber         string  `asn1:"utf8"`
	RapFileCreationTimeStamp      wireTimestamp
	RapFileAvailableTimeStamp     wireTimestamp
	TapDecimalPlaces              *int    `asn1:"optional"`
	RapSpecificationVersionNumber int
	RapReleaseVersionNumber       int
	SpecificationVersionNumber    *int    `asn1:"optional"`
	ReleaseVersionNumber          *int    `asn1:"optional"`
	FileTypeIndicator             *string `asn1:"utf8,optional"`
	ReturnDetails                 []wireReturnDetail
	TotalSevereReturnValue        int64
	ReturnDetailsCount            int
}

func wireTimestampOf(ts tapmodel.TimestampWithOffset) wireTimestamp {
	return wireTimestamp{LocalTimeStamp: ts.LocalTimeStamp, UtcTimeOffset: ts.UtcTimeOffset}
}

// Marshal encodes a Return Batch to ASN.1 DER.
func (DER) Marshal(rb *tapmodel.ReturnBatch) ([]byte, error) {
	bci := rb.RapBatchControlInfo
	wire := wireReturnBatch{
		Sender:                        bci.Sender,
		Recipient:                     bci.Recipient,
		RapFileSequenceNumber:         bci.RapFileSequenceNumber,
		RapFileCreationTimeStamp:      wireTimestampOf(bci.RapFileCreationTimeStamp),
		RapFileAvailableTimeStamp:     wireTimestampOf(bci.RapFileAvailableTimeStamp),
		TapDecimalPlaces:              bci.TapDecimalPlaces,
		RapSpecificationVersionNumber: bci.RapSpecificationVersionNumber,
		RapReleaseVersionNumber:       bci.RapReleaseVersionNumber,
		SpecificationVersionNumber:    bci.SpecificationVersionNumber,
		ReleaseVersionNumber:          bci.ReleaseVersionNumber,
		FileTypeIndicator:             bci.FileTypeIndicator,
		TotalSevereReturnValue:        rb.RapAuditControlInfo.TotalSevereReturnValue,
		ReturnDetailsCount:            rb.RapAuditControlInfo.ReturnDetailsCount,
	}

	for _, rd := range rb.ReturnDetails {
		fatal, ok := rd.(*tapmodel.ReturnDetailFatal)
		if !ok {
			continue // Severe returns are not yet encodable; see tapmodel.ReturnDetailSevere.
		}
		var errorDetails []wireErrorDetail
		for _, ed := range errorDetailsOf(fatal.Detail) {
			var ctx []wireErrorContextEntry
			for _, c := range ed.ErrorContext {
				ctx = append(ctx, wireErrorContextEntry{PathItemID: c.PathItemID, ItemLevel: c.ItemLevel})
			}
			errorDetails = append(errorDetails, wireErrorDetail{ErrorCode: ed.ErrorCode, ErrorContext: ctx})
		}

		wireDetail := wireReturnDetail{
			FileSequenceNumber: fatal.FileSequenceNumber,
			ErrorDetail:        errorDetails,
		}
		switch v := fatal.Detail.(type) {
		case *tapmodel.BatchControlError:
			c := v.BatchControlInfo
			wireDetail.BatchControlInfo = &wireBatchControlInfoCopy{
				Sender:                     c.Sender,
				Recipient:                  c.Recipient,
				FileSequenceNumber:         c.FileSequenceNumber,
				SpecificationVersionNumber: c.SpecificationVersionNumber,
				FileTypeIndicator:          c.FileTypeIndicator,
			}
			if c.FileAvailableTimeStamp != nil {
				ts := wireTimestampOf(*c.FileAvailableTimeStamp)
				wireDetail.BatchControlInfo.FileAvailableTimeStamp = &ts
			}
			if c.TransferCutOffTimeStamp != nil {
				ts := wireTimestampOf(*c.TransferCutOffTimeStamp)
				wireDetail.BatchControlInfo.TransferCutOffTimeStamp = &ts
			}
		case *tapmodel.AccountingInfoError:
			c := v.AccountingInfo
			wireDetail.AccountingInfo = &wireAccountingInfoCopy{
				LocalCurrency:    c.LocalCurrency,
				TapDecimalPlaces: c.TapDecimalPlaces,
			}
		case *tapmodel.NetworkInfoError:
			c := v.NetworkInfo
			wireDetail.NetworkInfo = &wireNetworkInfoCopy{
				UtcTimeOffsetInfoCount: len(c.UtcTimeOffsetInfo),
				RecEntityInfoCount:     len(c.RecEntityInfo),
			}
		case *tapmodel.AuditControlInfoError:
			c := v.AuditControlInfo
			wireDetail.AuditControlInfo = &wireAuditControlInfoCopy{
				TotalCharge:           c.TotalCharge,
				TotalTaxValue:         c.TotalTaxValue,
				TotalDiscountValue:    c.TotalDiscountValue,
				CallEventDetailsCount: c.CallEventDetailsCount,
			}
		}
		wire.ReturnDetails = append(wire.ReturnDetails, wireDetail)
	}

	encoded, err := asn1.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("codec: der encode failed: %w", err)
	}
	return encoded, nil
}

// errorDetailsOf extracts the ErrorDetail list out of whichever
// FatalErrorDetail variant is populated, collapsing the five near-identical
// accessors the reference implementation would otherwise need into one
// exhaustive switch (§9 design note on tagged-variant traversal).
func errorDetailsOf(d tapmodel.FatalErrorDetail) []tapmodel.ErrorDetail {
	switch v := d.(type) {
	case *tapmodel.TransferBatchError:
		return v.ErrorDetail
	case *tapmodel.BatchControlError:
		return v.ErrorDetail
	case *tapmodel.AccountingInfoError:
		return v.ErrorDetail
	case *tapmodel.NetworkInfoError:
		return v.ErrorDetail
	case *tapmodel.AuditControlInfoError:
		return v.ErrorDetail
	default:
		return nil
	}
}
