package probes

import (
	"testing"

	"github.com/Olernov/TAP3Loader/internal/codec"
	"github.com/Olernov/TAP3Loader/internal/tapmodel"
)

func intPtr(v int) *int { return &v }

func chargeDetail(t *testing.T, value int64) tapmodel.ChargeDetail {
	t.Helper()
	octets, err := codec.EncodeInt64AsOctets(value)
	if err != nil {
		t.Fatalf("encode charge %d: %v", value, err)
	}
	return tapmodel.ChargeDetail{Charge: octets}
}

func TestContainsTaxesAcrossCallVariants(t *testing.T) {
	tb := &tapmodel.TransferBatch{
		CallEventDetails: []tapmodel.CallEventDetail{
			&tapmodel.MobileOriginatedCall{
				BasicServiceUsedList: []tapmodel.BasicServiceUsed{
					{ChargeInformationList: []tapmodel.ChargeInformation{{}}},
				},
			},
			&tapmodel.GprsCall{
				GprsServiceUsed: &tapmodel.GprsServiceUsed{
					ChargeInformationList: []tapmodel.ChargeInformation{
						{TaxInformation: []tapmodel.TaxInformation{{TaxCode: intPtr(1)}}},
					},
				},
			},
		},
	}
	if !ContainsTaxes(tb) {
		t.Fatal("expected ContainsTaxes to find the GPRS call's tax entry")
	}
	if ContainsDiscounts(tb) {
		t.Fatal("expected ContainsDiscounts to be false, no discount entries present")
	}
}

func TestContainsTaxesIsOrderIndependent(t *testing.T) {
	withTax := tapmodel.ChargeInformation{TaxInformation: []tapmodel.TaxInformation{{TaxCode: intPtr(1)}}}
	noTax := tapmodel.ChargeInformation{}

	forward := &tapmodel.TransferBatch{
		CallEventDetails: []tapmodel.CallEventDetail{
			&tapmodel.MobileOriginatedCall{BasicServiceUsedList: []tapmodel.BasicServiceUsed{
				{ChargeInformationList: []tapmodel.ChargeInformation{noTax, withTax}},
			}},
		},
	}
	reversed := &tapmodel.TransferBatch{
		CallEventDetails: []tapmodel.CallEventDetail{
			&tapmodel.MobileOriginatedCall{BasicServiceUsedList: []tapmodel.BasicServiceUsed{
				{ChargeInformationList: []tapmodel.ChargeInformation{withTax, noTax}},
			}},
		},
	}

	if ContainsTaxes(forward) != ContainsTaxes(reversed) {
		t.Fatal("ContainsTaxes should have set semantics, independent of charge-information order")
	}
}

func TestContainsPositiveChargesRequiresDecimalPlaces(t *testing.T) {
	tb := &tapmodel.TransferBatch{
		CallEventDetails: []tapmodel.CallEventDetail{
			&tapmodel.MobileTerminatedCall{BasicServiceUsedList: []tapmodel.BasicServiceUsed{
				{ChargeInformationList: []tapmodel.ChargeInformation{
					{ChargeDetailList: []tapmodel.ChargeDetail{chargeDetail(t, 100)}},
				}},
			}},
		},
	}
	if ContainsPositiveCharges(tb) {
		t.Fatal("expected false when AccountingInfo/TapDecimalPlaces is absent")
	}

	tb.AccountingInfo = &tapmodel.AccountingInfo{TapDecimalPlaces: intPtr(2)}
	if !ContainsPositiveCharges(tb) {
		t.Fatal("expected true once TapDecimalPlaces is set and a positive charge exists")
	}
}

func TestContainsPositiveChargesRejectsZeroAndNegative(t *testing.T) {
	tb := &tapmodel.TransferBatch{
		AccountingInfo: &tapmodel.AccountingInfo{TapDecimalPlaces: intPtr(2)},
		CallEventDetails: []tapmodel.CallEventDetail{
			&tapmodel.MobileOriginatedCall{BasicServiceUsedList: []tapmodel.BasicServiceUsed{
				{ChargeInformationList: []tapmodel.ChargeInformation{
					{ChargeDetailList: []tapmodel.ChargeDetail{chargeDetail(t, 0)}},
					{ChargeDetailList: []tapmodel.ChargeDetail{chargeDetail(t, -50)}},
				}},
			}},
		},
	}
	if ContainsPositiveCharges(tb) {
		t.Fatal("expected false when every charge is zero or negative")
	}
}
