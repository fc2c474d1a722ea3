// Package tapmodel is the in-memory TAP3/RAP data model: the already-decoded
// Data Interchange value consumed by the validator, and the Return Batch
// value synthesised on a Fatal finding.
package tapmodel

// DataInterchange is the top-level tagged variant of a decoded TAP file: a
// Transfer Batch carrying accounting data, or a lightweight Notification.
type DataInterchange interface {
	isDataInterchange()
}

// TransferBatch is the normal roaming-accounting Data Interchange variant.
// Every field is optional in the wire schema; §4.4 names which are
// semantically required.
type TransferBatch struct {
	BatchControlInfo  *BatchControlInfo
	AccountingInfo    *AccountingInfo
	NetworkInfo       *NetworkInfo
	AuditControlInfo  *AuditControlInfo
	CallEventDetails  []CallEventDetail
}

func (*TransferBatch) isDataInterchange() {}

// Notification is the lightweight header-only Data Interchange variant.
type Notification struct {
	Sender             *string
	Recipient          *string
	FileSequenceNumber *string
}

func (*Notification) isDataInterchange() {}

// TimestampWithOffset pairs a local timestamp with its UTC offset, the shape
// shared by every TAP3/RAP timestamp field.
type TimestampWithOffset struct {
	LocalTimeStamp string
	UtcTimeOffset  string
}

// BatchControlInfo is the Transfer Batch header.
type BatchControlInfo struct {
	Sender                     *string
	Recipient                  *string
	FileSequenceNumber         *string
	FileAvailableTimeStamp     *TimestampWithOffset
	FileCreationTimeStamp      *TimestampWithOffset
	TransferCutOffTimeStamp    *TimestampWithOffset
	SpecificationVersionNumber *int
	ReleaseVersionNumber       *int
	FileTypeIndicator          *string
	OperatorSpecInformation    []string
	RapFileSequenceNumber      *string
}

// CurrencyConversion is one row of the Accounting Info currency-conversion
// table.
type CurrencyConversion struct {
	ExchangeRateCode     *int
	NumberOfDecimalPlaces *int
	ExchangeRate         *int64
}

// AccountingInfo carries the batch-wide currency and charge-breakdown
// configuration.
type AccountingInfo struct {
	LocalCurrency           *string
	TapCurrency             *string
	TapDecimalPlaces        *int
	Taxation                []TaxationInfo
	Discounting             []DiscountingInfo
	CurrencyConversionInfo  []CurrencyConversion
}

// TaxationInfo and DiscountingInfo are modeled only to the extent the
// validator's presence checks need (§4.4 item 3/4): whether the group is
// present at all.
type TaxationInfo struct {
	TaxCode *int
}

type DiscountingInfo struct {
	DiscountCode *int
}

// RecEntityInfo identifies a receiving network entity.
type RecEntityInfo struct {
	RecEntityCode *string
	RecEntityType *string
}

// UtcTimeOffsetInfo names a UTC offset in force for part of the batch.
type UtcTimeOffsetInfo struct {
	UtcTimeOffsetCode *string
	UtcTimeOffset     *string
}

// NetworkInfo carries the recording network's identity and timezone.
type NetworkInfo struct {
	UtcTimeOffsetInfo []UtcTimeOffsetInfo
	RecEntityInfo     []RecEntityInfo
}

// AdvisedChargeValue is one row of the audit-control advised-charge totals.
type AdvisedChargeValue struct {
	ChargeType       *string
	TotalAdvisedCharge *int64
}

// AuditControlInfo carries batch-wide totals cross-checked against the
// actual call-event content.
type AuditControlInfo struct {
	TotalCharge                 *int64
	TotalTaxValue               *int64
	TotalDiscountValue          *int64
	CallEventDetailsCount       *int
	EarliestCallTimeStamp       *TimestampWithOffset
	LatestCallTimeStamp         *TimestampWithOffset
	TotalChargeRefund           *int64
	TotalDiscountRefund         *int64
	TotalTaxRefund              *int64
	TotalAdvisedChargeValueList []AdvisedChargeValue
	OperatorSpecInformation     []string
}

// CallEventDetail is the tagged variant of a single call-event record.
type CallEventDetail interface {
	isCallEventDetail()
}

type MobileOriginatedCall struct {
	BasicServiceUsedList []BasicServiceUsed
}

func (*MobileOriginatedCall) isCallEventDetail() {}

type MobileTerminatedCall struct {
	BasicServiceUsedList []BasicServiceUsed
}

func (*MobileTerminatedCall) isCallEventDetail() {}

type GprsCall struct {
	GprsServiceUsed *GprsServiceUsed
}

func (*GprsCall) isCallEventDetail() {}

// BasicServiceUsed contributes a charge-information list for a single basic
// service used during a mobile-originated or mobile-terminated call.
type BasicServiceUsed struct {
	ChargeInformationList []ChargeInformation
}

// GprsServiceUsed contributes a charge-information list directly, with no
// intermediate basic-service grouping.
type GprsServiceUsed struct {
	ChargeInformationList []ChargeInformation
}

// ChargeInformation is one priced item: a charge-detail list plus optional
// tax and discount annotations.
type ChargeInformation struct {
	ChargeDetailList   []ChargeDetail
	TaxInformation     []TaxInformation
	DiscountInformation []DiscountInformation
}

// ChargeDetail carries the priced amount as a TAP octet-string-encoded
// signed integer, numerator over the batch-wide TapDecimalPlaces exponent.
type ChargeDetail struct {
	Charge []byte
}

type TaxInformation struct {
	TaxCode *int
}

type DiscountInformation struct {
	DiscountCode *int
}
