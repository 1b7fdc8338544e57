package memstore

import (
	"bytes"
	"context"
	"slices"
	"sort"
	"strings"

	"storagemanager/internal/core/apperror"
	"storagemanager/internal/core/entity"
	"storagemanager/internal/core/id"
	"storagemanager/internal/domain/documents"
	"storagemanager/internal/domain/documents/receipt"
	"storagemanager/internal/domain/documents/shipment"
)

// lineTable is the shared line storage of one document type.
type lineTable struct {
	store *Store
	lines func(*state) map[id.ID]entity.Line
}

func (t lineTable) get(ctx context.Context, docIDs ...id.ID) ([]entity.Line, error) {
	var out []entity.Line
	err := t.store.with(ctx, func(st *state) error {
		for _, l := range t.lines(st) {
			if !slices.Contains(docIDs, l.DocumentID) {
				continue
			}
			l.ResourceName = st.resources[l.ResourceID].Name
			l.MeasureName = st.measures[l.MeasureID].Name
			out = append(out, l)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0 })
	return out, err
}

func (t lineTable) insert(ctx context.Context, lines []entity.Line) error {
	return t.store.with(ctx, func(st *state) error {
		for _, l := range lines {
			l.ResourceName, l.MeasureName = "", ""
			t.lines(st)[l.ID] = l
		}
		return nil
	})
}

func (t lineTable) update(ctx context.Context, line entity.Line, lineEntity string) error {
	return t.store.with(ctx, func(st *state) error {
		if _, ok := t.lines(st)[line.ID]; !ok {
			return apperror.NewNotFound(lineEntity, "id", line.ID)
		}
		line.ResourceName, line.MeasureName = "", ""
		t.lines(st)[line.ID] = line
		return nil
	})
}

func (t lineTable) delete(ctx context.Context, lineIDs []id.ID) error {
	return t.store.with(ctx, func(st *state) error {
		for _, lineID := range lineIDs {
			delete(t.lines(st), lineID)
		}
		return nil
	})
}

func (t lineTable) deleteByDocument(st *state, docID id.ID) {
	lines := t.lines(st)
	for k, l := range lines {
		if l.DocumentID == docID {
			delete(lines, k)
		}
	}
}

func (t lineTable) references(ctx context.Context, match func(entity.Line) bool) (bool, error) {
	var found bool
	err := t.store.with(ctx, func(st *state) error {
		for _, l := range t.lines(st) {
			if match(l) {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

// matchDocument applies the shared document filter to a header and its lines.
func matchDocument(doc entity.Document, lines []entity.Line, f documents.Filter) bool {
	if len(f.Numbers) > 0 && !slices.ContainsFunc(f.Numbers, func(n string) bool {
		return strings.Contains(doc.Number, n)
	}) {
		return false
	}
	if f.From != nil && doc.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && doc.Date.After(*f.To) {
		return false
	}
	if len(f.ResourceIDs) > 0 && !slices.ContainsFunc(lines, func(l entity.Line) bool {
		return slices.Contains(f.ResourceIDs, l.ResourceID)
	}) {
		return false
	}
	if len(f.MeasureIDs) > 0 && !slices.ContainsFunc(lines, func(l entity.Line) bool {
		return slices.Contains(f.MeasureIDs, l.MeasureID)
	}) {
		return false
	}
	return true
}

func linesOf(all map[id.ID]entity.Line, docID id.ID) []entity.Line {
	var out []entity.Line
	for _, l := range all {
		if l.DocumentID == docID {
			out = append(out, l)
		}
	}
	return out
}

// lessDocument orders by date, then number.
func lessDocument(a, b entity.Document) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	return a.Number < b.Number
}

// ReceiptRepo is an in-memory receipt.Repository.
type ReceiptRepo struct {
	store *Store
	lineTable
}

// NewReceiptRepo creates an in-memory receipt repository.
func NewReceiptRepo(s *Store) *ReceiptRepo {
	return &ReceiptRepo{
		store:     s,
		lineTable: lineTable{store: s, lines: func(st *state) map[id.ID]entity.Line { return st.receiptLines }},
	}
}

func (r *ReceiptRepo) Create(ctx context.Context, doc *receipt.Receipt) error {
	return r.store.with(ctx, func(st *state) error {
		h := *doc
		h.Lines = nil
		st.receipts[doc.ID] = h
		return nil
	})
}

func (r *ReceiptRepo) GetByID(ctx context.Context, docID id.ID) (*receipt.Receipt, error) {
	var out *receipt.Receipt
	err := r.store.with(ctx, func(st *state) error {
		h, ok := st.receipts[docID]
		if !ok {
			return apperror.NewNotFound(receipt.EntityName, "id", docID)
		}
		out = &h
		return nil
	})
	return out, err
}

func (r *ReceiptRepo) ExistsByNumber(ctx context.Context, number string, excludeID id.ID) (bool, error) {
	var found bool
	err := r.store.with(ctx, func(st *state) error {
		for k, h := range st.receipts {
			if k != excludeID && h.Number == number {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *ReceiptRepo) Update(ctx context.Context, doc *receipt.Receipt) error {
	return r.store.with(ctx, func(st *state) error {
		if _, ok := st.receipts[doc.ID]; !ok {
			return apperror.NewNotFound(receipt.EntityName, "id", doc.ID)
		}
		h := *doc
		h.Lines = nil
		st.receipts[doc.ID] = h
		return nil
	})
}

func (r *ReceiptRepo) Delete(ctx context.Context, docID id.ID) error {
	return r.store.with(ctx, func(st *state) error {
		delete(st.receipts, docID)
		r.deleteByDocument(st, docID)
		return nil
	})
}

func (r *ReceiptRepo) GetLines(ctx context.Context, docIDs ...id.ID) ([]entity.Line, error) {
	return r.get(ctx, docIDs...)
}

func (r *ReceiptRepo) InsertLines(ctx context.Context, lines []entity.Line) error {
	return r.insert(ctx, lines)
}

func (r *ReceiptRepo) UpdateLine(ctx context.Context, line entity.Line) error {
	return r.update(ctx, line, receipt.LineEntityName)
}

func (r *ReceiptRepo) DeleteLines(ctx context.Context, lineIDs []id.ID) error {
	return r.delete(ctx, lineIDs)
}

func (r *ReceiptRepo) List(ctx context.Context, filter documents.Filter) ([]*receipt.Receipt, error) {
	var out []*receipt.Receipt
	err := r.store.with(ctx, func(st *state) error {
		for _, h := range st.receipts {
			if matchDocument(h.Document, linesOf(st.receiptLines, h.ID), filter) {
				out = append(out, &h)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return lessDocument(out[i].Document, out[j].Document) })
	return out, err
}

func (r *ReceiptRepo) ListNumbers(ctx context.Context) ([]string, error) {
	var out []string
	err := r.store.with(ctx, func(st *state) error {
		for _, h := range st.receipts {
			out = append(out, h.Number)
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

func (r *ReceiptRepo) ReferencesResource(ctx context.Context, resourceID id.ID) (bool, error) {
	return r.references(ctx, func(l entity.Line) bool { return l.ResourceID == resourceID })
}

func (r *ReceiptRepo) ReferencesMeasure(ctx context.Context, measureID id.ID) (bool, error) {
	return r.references(ctx, func(l entity.Line) bool { return l.MeasureID == measureID })
}

// ShipmentRepo is an in-memory shipment.Repository.
type ShipmentRepo struct {
	store *Store
	lineTable
}

// NewShipmentRepo creates an in-memory shipment repository.
func NewShipmentRepo(s *Store) *ShipmentRepo {
	return &ShipmentRepo{
		store:     s,
		lineTable: lineTable{store: s, lines: func(st *state) map[id.ID]entity.Line { return st.shipmentLines }},
	}
}

func (r *ShipmentRepo) Create(ctx context.Context, doc *shipment.Shipment) error {
	return r.store.with(ctx, func(st *state) error {
		h := *doc
		h.Lines, h.ClientName = nil, ""
		st.shipments[doc.ID] = h
		return nil
	})
}

func (r *ShipmentRepo) GetByID(ctx context.Context, docID id.ID) (*shipment.Shipment, error) {
	var out *shipment.Shipment
	err := r.store.with(ctx, func(st *state) error {
		h, ok := st.shipments[docID]
		if !ok {
			return apperror.NewNotFound(shipment.EntityName, "id", docID)
		}
		h.ClientName = st.clients[h.ClientID].Name
		out = &h
		return nil
	})
	return out, err
}

func (r *ShipmentRepo) ExistsByNumber(ctx context.Context, number string, excludeID id.ID) (bool, error) {
	var found bool
	err := r.store.with(ctx, func(st *state) error {
		for k, h := range st.shipments {
			if k != excludeID && h.Number == number {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *ShipmentRepo) Update(ctx context.Context, doc *shipment.Shipment) error {
	return r.store.with(ctx, func(st *state) error {
		if _, ok := st.shipments[doc.ID]; !ok {
			return apperror.NewNotFound(shipment.EntityName, "id", doc.ID)
		}
		h := *doc
		h.Lines, h.ClientName = nil, ""
		st.shipments[doc.ID] = h
		return nil
	})
}

func (r *ShipmentRepo) Delete(ctx context.Context, docID id.ID) error {
	return r.store.with(ctx, func(st *state) error {
		delete(st.shipments, docID)
		r.deleteByDocument(st, docID)
		return nil
	})
}

func (r *ShipmentRepo) GetLines(ctx context.Context, docIDs ...id.ID) ([]entity.Line, error) {
	return r.get(ctx, docIDs...)
}

func (r *ShipmentRepo) InsertLines(ctx context.Context, lines []entity.Line) error {
	return r.insert(ctx, lines)
}

func (r *ShipmentRepo) UpdateLine(ctx context.Context, line entity.Line) error {
	return r.update(ctx, line, shipment.LineEntityName)
}

func (r *ShipmentRepo) DeleteLines(ctx context.Context, lineIDs []id.ID) error {
	return r.delete(ctx, lineIDs)
}

func (r *ShipmentRepo) List(ctx context.Context, filter shipment.ListFilter) ([]*shipment.Shipment, error) {
	var out []*shipment.Shipment
	err := r.store.with(ctx, func(st *state) error {
		for _, h := range st.shipments {
			if len(filter.ClientIDs) > 0 && !slices.Contains(filter.ClientIDs, h.ClientID) {
				continue
			}
			if matchDocument(h.Document, linesOf(st.shipmentLines, h.ID), filter.Filter) {
				h.ClientName = st.clients[h.ClientID].Name
				out = append(out, &h)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return lessDocument(out[i].Document, out[j].Document) })
	return out, err
}

func (r *ShipmentRepo) ListNumbers(ctx context.Context) ([]string, error) {
	var out []string
	err := r.store.with(ctx, func(st *state) error {
		for _, h := range st.shipments {
			out = append(out, h.Number)
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

func (r *ShipmentRepo) ReferencesResource(ctx context.Context, resourceID id.ID) (bool, error) {
	return r.references(ctx, func(l entity.Line) bool { return l.ResourceID == resourceID })
}

func (r *ShipmentRepo) ReferencesMeasure(ctx context.Context, measureID id.ID) (bool, error) {
	return r.references(ctx, func(l entity.Line) bool { return l.MeasureID == measureID })
}

func (r *ShipmentRepo) ReferencesClient(ctx context.Context, clientID id.ID) (bool, error) {
	var found bool
	err := r.store.with(ctx, func(st *state) error {
		for _, h := range st.shipments {
			if h.ClientID == clientID {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}
