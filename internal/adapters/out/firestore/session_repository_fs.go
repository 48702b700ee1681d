// internal/adapters/out/firestore/session_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	nftdom "bulkminter/internal/domain/nft"
	royaltydom "bulkminter/internal/domain/royalty"
	sessdom "bulkminter/internal/domain/session"
)

// SessionRepositoryFS implements minting.SessionRepository using Firestore.
//
// Collection design:
// - collection: mint_sessions
// - docId: sessionId ✅ (docId is the source of truth)
// - fields: ownerWallet, assets, items, records, phase, activeIndex, ...
type SessionRepositoryFS struct {
	Client *firestore.Client
}

func NewSessionRepositoryFS(client *firestore.Client) *SessionRepositoryFS {
	return &SessionRepositoryFS{Client: client}
}

func (r *SessionRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("mint_sessions")
}

func (r *SessionRepositoryFS) Get(ctx context.Context, id string) (*sessdom.MintSession, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("session_repository_fs: firestore client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, sessdom.ErrNotFound
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, sessdom.ErrNotFound
		}
		return nil, err
	}

	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}

	s := doc.toDomain()
	// docId が source of truth
	s.ID = id
	return s, nil
}

func (r *SessionRepositoryFS) Save(ctx context.Context, s *sessdom.MintSession) error {
	if r == nil || r.Client == nil {
		return errors.New("session_repository_fs: firestore client is nil")
	}
	if s == nil {
		return errors.New("session_repository_fs: session is nil")
	}
	id := strings.TrimSpace(s.ID)
	if id == "" {
		return errors.New("session_repository_fs: session.ID is empty")
	}

	doc := sessionDocFromDomain(s)
	_, err := r.col().Doc(id).Set(ctx, doc)
	return err
}

// ------------------------------------------------------
// doc mapping
// ------------------------------------------------------

type sessionDoc struct {
	OwnerWallet string    `firestore:"ownerWallet"`
	CreatedAt   time.Time `firestore:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt"`

	Assets  []assetDoc  `firestore:"assets"`
	Items   []itemDoc   `firestore:"items"`
	Records []recordDoc `firestore:"records"`

	RoyaltyMode string `firestore:"royaltyMode"`
	// scope("all" または item index の文字列) -> 編集中の台帳下書き
	RoyaltyDrafts map[string][]creatorDoc `firestore:"royaltyDrafts"`
	Phase         string                  `firestore:"phase"`
	ActiveIndex int    `firestore:"activeIndex"`
	ActiveStep  string `firestore:"activeStep"`

	ActiveMetadataURI string      `firestore:"activeMetadataUri"`
	ActiveReceipt     *receiptDoc `firestore:"activeReceipt"`

	// index(文字列キー) -> receipt
	Receipts map[string]receiptDoc `firestore:"receipts"`
}

type assetDoc struct {
	URI  string `firestore:"uri"`
	Type string `firestore:"type"`
	Name string `firestore:"name"`
}

type attributeDoc struct {
	TraitType string `firestore:"traitType"`
	Value     string `firestore:"value"`
}

type creatorDoc struct {
	Address     string  `firestore:"address"`
	Share       float64 `firestore:"share"`
	IsCharity   bool    `firestore:"isCharity"`
	DisplayName string  `firestore:"displayName"`
	ImageURL    string  `firestore:"imageUrl"`
}

type royaltyDoc struct {
	BasisPoints int          `firestore:"basisPoints"`
	Creators    []creatorDoc `firestore:"creators"`
	// nil = 無制限。Firestore には int64 で置く。
	MaxSupply *int64 `firestore:"maxSupply"`
}

type itemDoc struct {
	FileName    string         `firestore:"fileName"`
	Name        string         `firestore:"name"`
	Description string         `firestore:"description"`
	Collection  string         `firestore:"collectionName"`
	Family      string         `firestore:"collectionFamily"`
	Attributes  []attributeDoc `firestore:"attributes"`
	CoverImage  *assetDoc      `firestore:"coverImage"`
	Royalty     *royaltyDoc    `firestore:"royalty"`
	CreatedAt   time.Time      `firestore:"createdAt"`
}

type recordDoc struct {
	Name                 string         `firestore:"name"`
	Symbol               string         `firestore:"symbol"`
	Description          string         `firestore:"description"`
	SellerFeeBasisPoints int            `firestore:"sellerFeeBasisPoints"`
	Image                string         `firestore:"image"`
	AnimationURL         string         `firestore:"animationUrl"`
	CollectionName       string         `firestore:"collectionName"`
	CollectionFamily     string         `firestore:"collectionFamily"`
	Attributes           []attributeDoc `firestore:"attributes"`
	Files                []assetDoc     `firestore:"files"`
	Category             string         `firestore:"category"`
	Creators             []creatorDoc   `firestore:"creators"`
	MaxSupply            *int64         `firestore:"maxSupply"`
	Status               string         `firestore:"status"`
}

type receiptDoc struct {
	TxID            string `firestore:"txId"`
	MintAddress     string `firestore:"mint"`
	MetadataAddress string `firestore:"metadata"`
	EditionAddress  string `firestore:"edition"`
}

func sessionDocFromDomain(s *sessdom.MintSession) sessionDoc {
	doc := sessionDoc{
		OwnerWallet: s.OwnerWallet,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   time.Now().UTC(),
		RoyaltyMode: string(s.RoyaltyMode),
		Phase:       string(s.Phase),
		ActiveIndex: s.ActiveIndex,
		ActiveStep:  string(s.ActiveStep),

		ActiveMetadataURI: s.ActiveMetadataURI,
	}

	for _, a := range s.Assets {
		doc.Assets = append(doc.Assets, assetDocFromDomain(a))
	}
	for i := range s.Items {
		doc.Items = append(doc.Items, itemDocFromDomain(&s.Items[i]))
	}
	for i := range s.Records {
		doc.Records = append(doc.Records, recordDocFromDomain(&s.Records[i]))
	}
	if s.ActiveReceipt != nil {
		d := receiptDocFromDomain(s.ActiveReceipt)
		doc.ActiveReceipt = &d
	}
	if len(s.Receipts) > 0 {
		doc.Receipts = make(map[string]receiptDoc, len(s.Receipts))
		for i, rcpt := range s.Receipts {
			if rcpt == nil {
				continue
			}
			doc.Receipts[strconv.Itoa(i)] = receiptDocFromDomain(rcpt)
		}
	}
	if len(s.RoyaltyDrafts) > 0 {
		doc.RoyaltyDrafts = make(map[string][]creatorDoc, len(s.RoyaltyDrafts))
		for scope, creators := range s.RoyaltyDrafts {
			doc.RoyaltyDrafts[scope] = creatorDocsFromDomain(creators)
		}
	}
	return doc
}

func receiptDocFromDomain(r *sessdom.MintReceipt) receiptDoc {
	return receiptDoc{
		TxID:            r.TxID,
		MintAddress:     r.MintAddress,
		MetadataAddress: r.MetadataAddress,
		EditionAddress:  r.EditionAddress,
	}
}

func (d receiptDoc) toDomain() *sessdom.MintReceipt {
	return &sessdom.MintReceipt{
		TxID:            d.TxID,
		MintAddress:     d.MintAddress,
		MetadataAddress: d.MetadataAddress,
		EditionAddress:  d.EditionAddress,
	}
}

func (d sessionDoc) toDomain() *sessdom.MintSession {
	s := &sessdom.MintSession{
		OwnerWallet: d.OwnerWallet,
		CreatedAt:   d.CreatedAt,
		RoyaltyMode: sessdom.RoyaltyMode(d.RoyaltyMode),
		Phase:       sessdom.Phase(d.Phase),
		ActiveIndex: d.ActiveIndex,
		ActiveStep:  sessdom.Step(d.ActiveStep),

		ActiveMetadataURI: d.ActiveMetadataURI,
	}

	for _, a := range d.Assets {
		s.Assets = append(s.Assets, a.toDomain())
	}
	for _, it := range d.Items {
		s.Items = append(s.Items, it.toDomain())
	}
	for _, rec := range d.Records {
		s.Records = append(s.Records, rec.toDomain())
	}
	if d.ActiveReceipt != nil {
		s.ActiveReceipt = d.ActiveReceipt.toDomain()
	}
	if len(d.Receipts) > 0 {
		s.Receipts = make(map[int]*sessdom.MintReceipt, len(d.Receipts))
		for k, rd := range d.Receipts {
			i, err := strconv.Atoi(k)
			if err != nil {
				continue
			}
			s.Receipts[i] = rd.toDomain()
		}
	}
	if len(d.RoyaltyDrafts) > 0 {
		s.RoyaltyDrafts = make(map[string][]royaltydom.Creator, len(d.RoyaltyDrafts))
		for scope, docs := range d.RoyaltyDrafts {
			s.RoyaltyDrafts[scope] = creatorDocsToDomain(docs)
		}
	}
	return s
}

func assetDocFromDomain(a nftdom.AssetRef) assetDoc {
	return assetDoc{URI: a.URI, Type: a.Type, Name: a.Name}
}

func (d assetDoc) toDomain() nftdom.AssetRef {
	return nftdom.AssetRef{URI: d.URI, Type: d.Type, Name: d.Name}
}

func attributeDocsFromDomain(in []nftdom.Attribute) []attributeDoc {
	out := make([]attributeDoc, 0, len(in))
	for _, a := range in {
		out = append(out, attributeDoc{TraitType: a.TraitType, Value: a.Value})
	}
	return out
}

func attributeDocsToDomain(in []attributeDoc) []nftdom.Attribute {
	out := make([]nftdom.Attribute, 0, len(in))
	for _, a := range in {
		out = append(out, nftdom.Attribute{TraitType: a.TraitType, Value: a.Value})
	}
	return out
}

func creatorDocsFromDomain(in []royaltydom.Creator) []creatorDoc {
	out := make([]creatorDoc, 0, len(in))
	for _, c := range in {
		d := creatorDoc{Address: c.Address, Share: c.Share}
		if c.Charity != nil {
			d.IsCharity = c.Charity.IsCharity
			d.DisplayName = c.Charity.DisplayName
			d.ImageURL = c.Charity.ImageURL
		}
		out = append(out, d)
	}
	return out
}

func creatorDocsToDomain(in []creatorDoc) []royaltydom.Creator {
	out := make([]royaltydom.Creator, 0, len(in))
	for _, d := range in {
		c := royaltydom.Creator{Address: d.Address, Share: d.Share}
		if d.IsCharity {
			c.Charity = &royaltydom.CharityProps{
				IsCharity:   true,
				DisplayName: d.DisplayName,
				ImageURL:    d.ImageURL,
			}
		}
		out = append(out, c)
	}
	return out
}

func maxSupplyToDoc(v *uint64) *int64 {
	if v == nil {
		return nil
	}
	n := int64(*v)
	return &n
}

func maxSupplyToDomain(v *int64) *uint64 {
	if v == nil || *v < 0 {
		return nil
	}
	n := uint64(*v)
	return &n
}

func itemDocFromDomain(it *nftdom.MintItem) itemDoc {
	d := itemDoc{
		FileName:    it.FileName,
		Name:        it.Name,
		Description: it.Description,
		Collection:  it.Collection.Name,
		Family:      it.Collection.Family,
		Attributes:  attributeDocsFromDomain(it.Attributes),
		CreatedAt:   it.CreatedAt,
	}
	if it.CoverImage != nil {
		a := assetDocFromDomain(*it.CoverImage)
		d.CoverImage = &a
	}
	if it.Royalty != nil {
		d.Royalty = &royaltyDoc{
			BasisPoints: int(it.Royalty.TotalBasisPoints),
			Creators:    creatorDocsFromDomain(it.Royalty.Creators),
			MaxSupply:   maxSupplyToDoc(it.Royalty.MaxSupply),
		}
	}
	return d
}

func (d itemDoc) toDomain() nftdom.MintItem {
	it := nftdom.MintItem{
		FileName:    d.FileName,
		Name:        d.Name,
		Description: d.Description,
		Collection:  nftdom.Collection{Name: d.Collection, Family: d.Family},
		Attributes:  attributeDocsToDomain(d.Attributes),
		CreatedAt:   d.CreatedAt,
	}
	if d.CoverImage != nil {
		a := d.CoverImage.toDomain()
		it.CoverImage = &a
	}
	if d.Royalty != nil {
		it.Royalty = &royaltydom.RoyaltyConfig{
			TotalBasisPoints: uint16(d.Royalty.BasisPoints),
			Creators:         creatorDocsToDomain(d.Royalty.Creators),
			MaxSupply:        maxSupplyToDomain(d.Royalty.MaxSupply),
		}
	}
	return it
}

func recordDocFromDomain(r *nftdom.MintRecord) recordDoc {
	d := recordDoc{
		Name:                 r.Name,
		Symbol:               r.Symbol,
		Description:          r.Description,
		SellerFeeBasisPoints: int(r.SellerFeeBasisPoints),
		Image:                r.Image,
		AnimationURL:         r.AnimationURL,
		CollectionName:       r.Collection.Name,
		CollectionFamily:     r.Collection.Family,
		Attributes:           attributeDocsFromDomain(r.Attributes),
		Category:             string(r.Category),
		Creators:             creatorDocsFromDomain(r.Creators),
		MaxSupply:            maxSupplyToDoc(r.MaxSupply),
		Status:               string(r.Status),
	}
	for _, f := range r.Files {
		d.Files = append(d.Files, assetDocFromDomain(f))
	}
	return d
}

func (d recordDoc) toDomain() nftdom.MintRecord {
	r := nftdom.MintRecord{
		Name:                 d.Name,
		Symbol:               d.Symbol,
		Description:          d.Description,
		SellerFeeBasisPoints: uint16(d.SellerFeeBasisPoints),
		Image:                d.Image,
		AnimationURL:         d.AnimationURL,
		Collection:           nftdom.Collection{Name: d.CollectionName, Family: d.CollectionFamily},
		Attributes:           attributeDocsToDomain(d.Attributes),
		Category:             nftdom.Category(d.Category),
		Creators:             creatorDocsToDomain(d.Creators),
		MaxSupply:            maxSupplyToDomain(d.MaxSupply),
		Status:               nftdom.MintStatus(d.Status),
	}
	for _, f := range d.Files {
		r.Files = append(r.Files, f.toDomain())
	}
	return r
}
