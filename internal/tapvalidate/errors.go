// Package tapvalidate implements the structural validator (C4) and
// dispatcher (C5).
package tapvalidate

// Error codes from the TD.57/TD.32 appendices (§6). Grouped by the
// structure they're raised against, in the fixed check order §4.4 mandates.
const (
	TransferBatchControlInfoMissing = 3001
	TransferBatchAccountingInfoMissing = 3002
	TransferBatchNetworkInfoMissing     = 3003
	TransferBatchAuditControlInfoMissing = 3004

	BatchControlFileAvailTimestampMissing = 3101
	BatchControlSpecVersionMissing        = 3102
	BatchControlTransferCutoffMissing     = 3103

	AccountingLocalCurrencyMissing      = 3201
	AccountingTapDecimalPlacesMissing   = 3202
	AccountingTaxationMissing           = 3203
	AccountingDiscountingMissing        = 3204
	AccountingCurrencyConversionMissing = 3205

	CurrencyConversionExRateCodeMissing       = 3211
	CurrencyConversionNumOfDecPlacesMissing   = 3212
	CurrencyConversionExchangeRateMissing     = 3213
	CurrencyConversionExRateCodeDuplication   = 3214

	NetworkUtcTimeOffsetMissing = 3301
	NetworkRecEntityMissing     = 3302

	AuditControlTotalChargeMissing   = 3401
	AuditControlTotalTaxValueMissing = 3402
	AuditControlTotalDiscountMissing = 3403
	AuditControlCallCountMissing     = 3404
	CallCountMismatch                = 3405
)

// messages maps each error code to its human-readable diagnostic text.
// CurrencyConversionNumOfDecPlacesMissing and CurrencyConversionExchangeRateMissing
// each get their own distinct message here: the reference implementation
// reported "Exchange Rate Code missing" for all three currency-conversion
// field checks, a copy-paste mistake the codes themselves never had (§9
// design note on the duplicate error message).
var messages = map[int]string{
	TransferBatchControlInfoMissing:      "Batch Control Info missing in Transfer Batch",
	TransferBatchAccountingInfoMissing:   "Accounting Info missing in Transfer Batch",
	TransferBatchNetworkInfoMissing:      "Network Info missing in Transfer Batch",
	TransferBatchAuditControlInfoMissing: "Audit Control Info missing in Transfer Batch",

	BatchControlFileAvailTimestampMissing: "fileAvailableTimeStamp is missing in Batch Control Info",
	BatchControlSpecVersionMissing:        "specificationVersionNumber is missing in Batch Control Info",
	BatchControlTransferCutoffMissing:     "transferCutOffTimeStamp is missing in Batch Control Info",

	AccountingLocalCurrencyMissing:      "localCurrency is missing in Accounting Info",
	AccountingTapDecimalPlacesMissing:   "tapDecimalPlaces is missing in Accounting Info",
	AccountingTaxationMissing:           "taxation group is missing in Accounting Info and batch contains taxes",
	AccountingDiscountingMissing:        "discounting group is missing in Accounting Info and batch contains discounts",
	AccountingCurrencyConversionMissing: "currencyConversion group is missing in Accounting Info and batch contains charges greater than 0",

	CurrencyConversionExRateCodeMissing:     "Mandatory item Exchange Rate Code missing within group Currency Conversion",
	CurrencyConversionNumOfDecPlacesMissing: "Mandatory item Number Of Decimal Places missing within group Currency Conversion",
	CurrencyConversionExchangeRateMissing:   "Mandatory item Exchange Rate missing within group Currency Conversion",
	CurrencyConversionExRateCodeDuplication: "More than one occurrence of group with same Exchange Rate Code within group Currency Conversion",

	NetworkUtcTimeOffsetMissing: "utcTimeOffsetInfo is missing in Network Info",
	NetworkRecEntityMissing:     "recEntityInfo is missing in Network Info",

	AuditControlTotalChargeMissing:   "totalCharge is missing in Audit Control Info",
	AuditControlTotalTaxValueMissing: "totalTaxValue is missing in Audit Control Info",
	AuditControlTotalDiscountMissing: "totalDiscountValue is missing in Audit Control Info",
	AuditControlCallCountMissing:     "callEventDetailsCount is missing in Audit Control Info",
	CallCountMismatch:                "Audit Control Info/CallEventDetailsCount does not match the count of Call Event Details",
}

func messageFor(code int) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return "unknown validation fault"
}
