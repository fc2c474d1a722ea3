// Package fixtures loads YAML fixtures that stand in for the upstream
// BER/DER decoder's output (out of scope per the codec/probe/validator
// scope note - see internal/codec). A fixture describes a decoded Data
// Interchange value directly, in a shape that mirrors internal/tapmodel
// field-for-field, the same way the teacher's converter package read a
// declarative YAML shape and built its own in-memory types from it.
package fixtures

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Olernov/TAP3Loader/internal/codec"
	"github.com/Olernov/TAP3Loader/internal/tapmodel"
)

// File is the top-level fixture document. Exactly one of TransferBatch or
// Notification should be set, mirroring the Data Interchange tagged union.
type File struct {
	TransferBatch *transferBatch `yaml:"transfer_batch"`
	Notification  *notification  `yaml:"notification"`
}

type notification struct {
	Sender             *string `yaml:"sender"`
	Recipient          *string `yaml:"recipient"`
	FileSequenceNumber *string `yaml:"file_sequence_number"`
}

type timestamp struct {
	LocalTimeStamp string `yaml:"local_time_stamp"`
	UtcTimeOffset  string `yaml:"utc_time_offset"`
}

func (t *timestamp) build() *tapmodel.TimestampWithOffset {
	if t == nil {
		return nil
	}
	return &tapmodel.TimestampWithOffset{
		LocalTimeStamp: t.LocalTimeStamp,
		UtcTimeOffset:  t.UtcTimeOffset,
	}
}

type batchControlInfo struct {
	Sender                     *string    `yaml:"sender"`
	Recipient                  *string    `yaml:"recipient"`
	FileSequenceNumber         *string    `yaml:"file_sequence_number"`
	FileAvailableTimeStamp     *timestamp `yaml:"file_available_time_stamp"`
	FileCreationTimeStamp      *timestamp `yaml:"file_creation_time_stamp"`
	TransferCutOffTimeStamp    *timestamp `yaml:"transfer_cut_off_time_stamp"`
	SpecificationVersionNumber *int       `yaml:"specification_version_number"`
	ReleaseVersionNumber       *int       `yaml:"release_version_number"`
	FileTypeIndicator          *string    `yaml:"file_type_indicator"`
	OperatorSpecInformation    []string   `yaml:"operator_spec_information"`
	RapFileSequenceNumber      *string    `yaml:"rap_file_sequence_number"`
}

func (b *batchControlInfo) build() *tapmodel.BatchControlInfo {
	if b == nil {
		return nil
	}
	return &tapmodel.BatchControlInfo{
		Sender:                     b.Sender,
		Recipient:                  b.Recipient,
		FileSequenceNumber:         b.FileSequenceNumber,
		FileAvailableTimeStamp:     b.FileAvailableTimeStamp.build(),
		FileCreationTimeStamp:      b.FileCreationTimeStamp.build(),
		TransferCutOffTimeStamp:    b.TransferCutOffTimeStamp.build(),
		SpecificationVersionNumber: b.SpecificationVersionNumber,
		ReleaseVersionNumber:       b.ReleaseVersionNumber,
		FileTypeIndicator:          b.FileTypeIndicator,
		OperatorSpecInformation:    b.OperatorSpecInformation,
		RapFileSequenceNumber:      b.RapFileSequenceNumber,
	}
}

type currencyConversion struct {
	ExchangeRateCode      *int   `yaml:"exchange_rate_code"`
	NumberOfDecimalPlaces *int   `yaml:"number_of_decimal_places"`
	ExchangeRate          *int64 `yaml:"exchange_rate"`
}

type taxationInfo struct {
	TaxCode *int `yaml:"tax_code"`
}

type discountingInfo struct {
	DiscountCode *int `yaml:"discount_code"`
}

type accountingInfo struct {
	LocalCurrency          *string              `yaml:"local_currency"`
	TapCurrency            *string              `yaml:"tap_currency"`
	TapDecimalPlaces       *int                 `yaml:"tap_decimal_places"`
	Taxation               []taxationInfo       `yaml:"taxation"`
	Discounting            []discountingInfo    `yaml:"discounting"`
	CurrencyConversionInfo []currencyConversion `yaml:"currency_conversion_info"`
}

func (a *accountingInfo) build() *tapmodel.AccountingInfo {
	if a == nil {
		return nil
	}
	out := &tapmodel.AccountingInfo{
		LocalCurrency:    a.LocalCurrency,
		TapCurrency:      a.TapCurrency,
		TapDecimalPlaces: a.TapDecimalPlaces,
	}
	for _, t := range a.Taxation {
		out.Taxation = append(out.Taxation, tapmodel.TaxationInfo{TaxCode: t.TaxCode})
	}
	for _, d := range a.Discounting {
		out.Discounting = append(out.Discounting, tapmodel.DiscountingInfo{DiscountCode: d.DiscountCode})
	}
	for _, c := range a.CurrencyConversionInfo {
		out.CurrencyConversionInfo = append(out.CurrencyConversionInfo, tapmodel.CurrencyConversion{
			ExchangeRateCode:      c.ExchangeRateCode,
			NumberOfDecimalPlaces: c.NumberOfDecimalPlaces,
			ExchangeRate:          c.ExchangeRate,
		})
	}
	return out
}

type recEntityInfo struct {
	RecEntityCode *string `yaml:"rec_entity_code"`
	RecEntityType *string `yaml:"rec_entity_type"`
}

type utcTimeOffsetInfo struct {
	UtcTimeOffsetCode *string `yaml:"utc_time_offset_code"`
	UtcTimeOffset     *string `yaml:"utc_time_offset"`
}

type networkInfo struct {
	UtcTimeOffsetInfo []utcTimeOffsetInfo `yaml:"utc_time_offset_info"`
	RecEntityInfo     []recEntityInfo     `yaml:"rec_entity_info"`
}

func (n *networkInfo) build() *tapmodel.NetworkInfo {
	if n == nil {
		return nil
	}
	out := &tapmodel.NetworkInfo{}
	for _, u := range n.UtcTimeOffsetInfo {
		out.UtcTimeOffsetInfo = append(out.UtcTimeOffsetInfo, tapmodel.UtcTimeOffsetInfo{
			UtcTimeOffsetCode: u.UtcTimeOffsetCode,
			UtcTimeOffset:     u.UtcTimeOffset,
		})
	}
	for _, r := range n.RecEntityInfo {
		out.RecEntityInfo = append(out.RecEntityInfo, tapmodel.RecEntityInfo{
			RecEntityCode: r.RecEntityCode,
			RecEntityType: r.RecEntityType,
		})
	}
	return out
}

type advisedChargeValue struct {
	ChargeType         *string `yaml:"charge_type"`
	TotalAdvisedCharge *int64  `yaml:"total_advised_charge"`
}

type auditControlInfo struct {
	TotalCharge                 *int64               `yaml:"total_charge"`
	TotalTaxValue                *int64               `yaml:"total_tax_value"`
	TotalDiscountValue          *int64               `yaml:"total_discount_value"`
	CallEventDetailsCount       *int                 `yaml:"call_event_details_count"`
	EarliestCallTimeStamp       *timestamp           `yaml:"earliest_call_time_stamp"`
	LatestCallTimeStamp         *timestamp           `yaml:"latest_call_time_stamp"`
	TotalChargeRefund           *int64               `yaml:"total_charge_refund"`
	TotalDiscountRefund         *int64               `yaml:"total_discount_refund"`
	TotalTaxRefund              *int64               `yaml:"total_tax_refund"`
	TotalAdvisedChargeValueList []advisedChargeValue `yaml:"total_advised_charge_value_list"`
	OperatorSpecInformation     []string             `yaml:"operator_spec_information"`
}

func (a *auditControlInfo) build() *tapmodel.AuditControlInfo {
	if a == nil {
		return nil
	}
	out := &tapmodel.AuditControlInfo{
		TotalCharge:             a.TotalCharge,
		TotalTaxValue:           a.TotalTaxValue,
		TotalDiscountValue:      a.TotalDiscountValue,
		CallEventDetailsCount:   a.CallEventDetailsCount,
		EarliestCallTimeStamp:   a.EarliestCallTimeStamp.build(),
		LatestCallTimeStamp:     a.LatestCallTimeStamp.build(),
		TotalChargeRefund:       a.TotalChargeRefund,
		TotalDiscountRefund:     a.TotalDiscountRefund,
		TotalTaxRefund:          a.TotalTaxRefund,
		OperatorSpecInformation: a.OperatorSpecInformation,
	}
	for _, v := range a.TotalAdvisedChargeValueList {
		out.TotalAdvisedChargeValueList = append(out.TotalAdvisedChargeValueList, tapmodel.AdvisedChargeValue{
			ChargeType:         v.ChargeType,
			TotalAdvisedCharge: v.TotalAdvisedCharge,
		})
	}
	return out
}

type chargeDetail struct {
	// ChargeValue is a plain signed decimal; the fixture loader encodes it
	// with the same octet-string codec the wire format uses (C1), so
	// fixtures never spell out raw octets by hand.
	ChargeValue int64 `yaml:"charge_value"`
}

func (c chargeDetail) build() (tapmodel.ChargeDetail, error) {
	octets, err := codec.EncodeInt64AsOctets(c.ChargeValue)
	if err != nil {
		return tapmodel.ChargeDetail{}, err
	}
	return tapmodel.ChargeDetail{Charge: octets}, nil
}

type chargeInformation struct {
	ChargeDetailList    []chargeDetail    `yaml:"charge_detail_list"`
	TaxInformation      []taxationInfo    `yaml:"tax_information"`
	DiscountInformation []discountingInfo `yaml:"discount_information"`
}

func (c chargeInformation) build() (tapmodel.ChargeInformation, error) {
	out := tapmodel.ChargeInformation{}
	for _, cd := range c.ChargeDetailList {
		built, err := cd.build()
		if err != nil {
			return tapmodel.ChargeInformation{}, err
		}
		out.ChargeDetailList = append(out.ChargeDetailList, built)
	}
	for _, t := range c.TaxInformation {
		out.TaxInformation = append(out.TaxInformation, tapmodel.TaxInformation{TaxCode: t.TaxCode})
	}
	for _, d := range c.DiscountInformation {
		out.DiscountInformation = append(out.DiscountInformation, tapmodel.DiscountInformation{DiscountCode: d.DiscountCode})
	}
	return out, nil
}

type basicServiceUsed struct {
	ChargeInformationList []chargeInformation `yaml:"charge_information_list"`
}

func (b basicServiceUsed) build() (tapmodel.BasicServiceUsed, error) {
	out := tapmodel.BasicServiceUsed{}
	for _, ci := range b.ChargeInformationList {
		built, err := ci.build()
		if err != nil {
			return tapmodel.BasicServiceUsed{}, err
		}
		out.ChargeInformationList = append(out.ChargeInformationList, built)
	}
	return out, nil
}

type callEventDetail struct {
	Kind                 string             `yaml:"kind"` // "mo", "mt", or "gprs"
	BasicServiceUsedList []basicServiceUsed `yaml:"basic_service_used_list"`
	GprsServiceUsed      *struct {
		ChargeInformationList []chargeInformation `yaml:"charge_information_list"`
	} `yaml:"gprs_service_used"`
}

func (c callEventDetail) build() (tapmodel.CallEventDetail, error) {
	switch c.Kind {
	case "mo", "mt":
		var list []tapmodel.BasicServiceUsed
		for _, b := range c.BasicServiceUsedList {
			built, err := b.build()
			if err != nil {
				return nil, err
			}
			list = append(list, built)
		}
		if c.Kind == "mo" {
			return &tapmodel.MobileOriginatedCall{BasicServiceUsedList: list}, nil
		}
		return &tapmodel.MobileTerminatedCall{BasicServiceUsedList: list}, nil
	case "gprs":
		gprs := &tapmodel.GprsServiceUsed{}
		if c.GprsServiceUsed != nil {
			for _, ci := range c.GprsServiceUsed.ChargeInformationList {
				built, err := ci.build()
				if err != nil {
					return nil, err
				}
				gprs.ChargeInformationList = append(gprs.ChargeInformationList, built)
			}
		}
		return &tapmodel.GprsCall{GprsServiceUsed: gprs}, nil
	default:
		return nil, fmt.Errorf("fixtures: unknown call event detail kind %q", c.Kind)
	}
}

type transferBatch struct {
	BatchControlInfo *batchControlInfo `yaml:"batch_control_info"`
	AccountingInfo   *accountingInfo   `yaml:"accounting_info"`
	NetworkInfo      *networkInfo      `yaml:"network_info"`
	AuditControlInfo *auditControlInfo `yaml:"audit_control_info"`
	CallEventDetails []callEventDetail `yaml:"call_event_details"`
}

func (t *transferBatch) build() (*tapmodel.TransferBatch, error) {
	out := &tapmodel.TransferBatch{
		BatchControlInfo: t.BatchControlInfo.build(),
		AccountingInfo:   t.AccountingInfo.build(),
		NetworkInfo:      t.NetworkInfo.build(),
		AuditControlInfo: t.AuditControlInfo.build(),
	}
	for _, ced := range t.CallEventDetails {
		built, err := ced.build()
		if err != nil {
			return nil, err
		}
		out.CallEventDetails = append(out.CallEventDetails, built)
	}
	return out, nil
}

// Load reads a fixture file and builds the Data Interchange value it
// describes.
func Load(path string) (tapmodel.DataInterchange, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: read %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("fixtures: parse %s: %w", path, err)
	}

	switch {
	case f.TransferBatch != nil:
		return f.TransferBatch.build()
	case f.Notification != nil:
		return &tapmodel.Notification{
			Sender:             f.Notification.Sender,
			Recipient:          f.Notification.Recipient,
			FileSequenceNumber: f.Notification.FileSequenceNumber,
		}, nil
	default:
		return nil, fmt.Errorf("fixtures: %s names neither transfer_batch nor notification", path)
	}
}
