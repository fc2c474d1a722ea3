// Package asn1meta holds the per-type ASN.1 tag-number metadata the error
// context builder needs. In the reference implementation these numbers came
// from the ASN.1 compiler's generated descriptor tables
// (asn_DEF_<Type>.tags[0] >> 2, stripping the two class bits from the tag
// octet); here they are a small schema-derived constant table consulted by
// name, so tapvalidate never hardcodes a tag number inline (§9 design note
// on Error Context path-item encoding). The class+form bits are modeled
// explicitly using the same bit layout as a BER/DER tag octet (class in the
// top two bits, form in bit six, tag number in the low five bits for the
// short form used throughout TD.57's context-specific tagging).
package asn1meta

// TagClass is the top two bits of a BER/DER identifier octet.
type TagClass byte

const (
	ClassUniversal       TagClass = 0x00
	ClassApplication     TagClass = 0x40
	ClassContextSpecific TagClass = 0x80
	ClassPrivate         TagClass = 0xC0
)

// TagForm is bit six of a BER/DER identifier octet.
type TagForm byte

const (
	FormPrimitive   TagForm = 0x00
	FormConstructed TagForm = 0x20
)

// tagOctet packs a class, form and tag number into a single identifier
// octet, short form (tag number < 0x1F).
func tagOctet(class TagClass, form TagForm, number byte) byte {
	return byte(class) | byte(form) | (number & 0x1F)
}

// PathItemID strips the class+form bits from an identifier octet, leaving
// the bare tag number used as an Error Context path_item_id. The reference
// implementation computes this as "tag >> 2" because its ASN.1 compiler
// packs form into the low bit already; here the class and form bits are
// masked off explicitly rather than assumed to be exactly two bits, which is
// the more defensive and idiomatic Go way to express the same operation
// (see slonegd-go61850's ber.Tag bit layout for the canonical breakdown).
func PathItemID(identifierOctet byte) int {
	return int(identifierOctet & 0x1F)
}

// Context-specific tag numbers for the TAP3 Transfer Batch's immediate
// children, in TD.57 schema order.
const (
	tagTransferBatch     = 0
	tagBatchControlInfo  = 0
	tagAccountingInfo    = 1
	tagNetworkInfo       = 2
	tagCallEventDetails  = 3
	tagAuditControlInfo  = 4

	tagCurrencyConversionList = 2 // AccountingInfo's currencyConversionInfo field index
	tagCallEventDetailsCount = 3 // AuditControlInfo's callEventDetailsCount field index
)

// identifier octets for each named container, precomputed once.
var (
	transferBatchTag     = tagOctet(ClassContextSpecific, FormConstructed, tagTransferBatch)
	batchControlInfoTag  = tagOctet(ClassContextSpecific, FormConstructed, tagBatchControlInfo)
	accountingInfoTag    = tagOctet(ClassContextSpecific, FormConstructed, tagAccountingInfo)
	networkInfoTag       = tagOctet(ClassContextSpecific, FormConstructed, tagNetworkInfo)
	auditControlInfoTag  = tagOctet(ClassContextSpecific, FormConstructed, tagAuditControlInfo)
	currencyConversionListTag = tagOctet(ClassContextSpecific, FormConstructed, tagCurrencyConversionList)
	callEventDetailsCountTag  = tagOctet(ClassContextSpecific, FormPrimitive, tagCallEventDetailsCount)
)

// Container names the types the validator can cite as an Error Context
// entry.
type Container int

const (
	TransferBatch Container = iota
	BatchControlInfo
	AccountingInfo
	NetworkInfo
	AuditControlInfo
	CurrencyConversionList
	CallEventDetailsCount
)

// TagNumber returns the path_item_id for a named container.
func TagNumber(c Container) int {
	switch c {
	case TransferBatch:
		return PathItemID(transferBatchTag)
	case BatchControlInfo:
		return PathItemID(batchControlInfoTag)
	case AccountingInfo:
		return PathItemID(accountingInfoTag)
	case NetworkInfo:
		return PathItemID(networkInfoTag)
	case AuditControlInfo:
		return PathItemID(auditControlInfoTag)
	case CurrencyConversionList:
		return PathItemID(currencyConversionListTag)
	case CallEventDetailsCount:
		return PathItemID(callEventDetailsCountTag)
	default:
		panic("asn1meta: unknown container")
	}
}
