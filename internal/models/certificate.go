package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenStandard classifies the asset a certificate represents.
type TokenStandard string

const (
	TokenStandardNonFungible        TokenStandard = "NonFungible"
	TokenStandardFungibleAsset      TokenStandard = "FungibleAsset"
	TokenStandardFungible           TokenStandard = "Fungible"
	TokenStandardNonFungibleEdition TokenStandard = "NonFungibleEdition"
)

// TokenProgramVersion tags which token program family the certificate
// targets.
type TokenProgramVersion string

const (
	TokenProgramVersionOriginal  TokenProgramVersion = "Original"
	TokenProgramVersionToken2022 TokenProgramVersion = "Token2022"
)

// UseMethod describes how a usage-limited certificate is consumed.
type UseMethod string

const (
	UseMethodBurn     UseMethod = "Burn"
	UseMethodMultiple UseMethod = "Multiple"
	UseMethodSingle   UseMethod = "Single"
)

// Collection is an optional reference to the collection a certificate
// belongs to.
type Collection struct {
	Verified bool   `bson:"verified" json:"verified"`
	Key      string `bson:"key" json:"key" binding:"required"`
}

// Uses is an optional usage counter attached to a certificate.
type Uses struct {
	UseMethod UseMethod `bson:"useMethod" json:"useMethod" binding:"required,oneof=Burn Multiple Single"`
	Remaining uint64    `bson:"remaining" json:"remaining"`
	Total     uint64    `bson:"total" json:"total"`
}

// Creator is one entry of a certificate's creator list. Share is a
// percentage, not basis points.
type Creator struct {
	Address  string `bson:"address" json:"address" binding:"required"`
	Verified bool   `bson:"verified" json:"verified"`
	Share    uint8  `bson:"share" json:"share" binding:"max=100"`
}

// CertificateMetadata is the buyer-supplied descriptive template each issued
// ticket certificate carries. Content is accepted as supplied; no
// raffle-level policy is applied to it.
type CertificateMetadata struct {
	Name                 string               `bson:"name" json:"name" binding:"required"`
	Symbol               string               `bson:"symbol" json:"symbol"`
	URI                  string               `bson:"uri" json:"uri" binding:"required"`
	SellerFeeBasisPoints uint16               `bson:"sellerFeeBasisPoints" json:"sellerFeeBasisPoints" binding:"max=10000"`
	PrimarySaleHappened  bool                 `bson:"primarySaleHappened" json:"primarySaleHappened"`
	IsMutable            bool                 `bson:"isMutable" json:"isMutable"`
	EditionNonce         *uint8               `bson:"editionNonce,omitempty" json:"editionNonce,omitempty"`
	TokenStandard        *TokenStandard       `bson:"tokenStandard,omitempty" json:"tokenStandard,omitempty" binding:"omitempty,oneof=NonFungible FungibleAsset Fungible NonFungibleEdition"`
	Collection           *Collection          `bson:"collection,omitempty" json:"collection,omitempty"`
	Uses                 *Uses                `bson:"uses,omitempty" json:"uses,omitempty"`
	TokenProgramVersion  TokenProgramVersion  `bson:"tokenProgramVersion" json:"tokenProgramVersion" binding:"required,oneof=Original Token2022"`
	Creators             []Creator            `bson:"creators" json:"creators" binding:"dive"`
}

// TicketCertificate is one issued unit of proof of purchase, appended to
// the certificate log exactly once and never updated or deleted.
type TicketCertificate struct {
	ID        string              `bson:"certificateId" json:"certificateId"`
	LogRef    string              `bson:"logRef" json:"logRef"`
	LeafIndex uint64              `bson:"leafIndex" json:"leafIndex"`
	LeafHash  string              `bson:"leafHash" json:"leafHash"`
	Owner     string              `bson:"owner" json:"owner"`
	Delegate  string              `bson:"delegate" json:"delegate"`
	Metadata  CertificateMetadata `bson:"metadata" json:"metadata"`
	MintedAt  time.Time           `bson:"mintedAt" json:"mintedAt"`

	MongoID primitive.ObjectID `bson:"_id,omitempty" json:"-"`
}

// CertificateLogState is the observable state of one certificate log: its
// commitment, fill level and fixed capacity.
type CertificateLogState struct {
	LogRef        string `bson:"logRef" json:"logRef"`
	Root          string `bson:"root" json:"root"`
	Count         uint64 `bson:"count" json:"count"`
	Capacity      uint64 `bson:"capacity" json:"capacity"`
	MaxDepth      uint32 `bson:"maxDepth" json:"maxDepth"`
	MaxBufferSize uint32 `bson:"maxBufferSize" json:"maxBufferSize"`
}
