package dto

import (
	"time"

	"storagemanager/internal/core/entity"
	"storagemanager/internal/core/id"
	"storagemanager/internal/domain/documents"
	"storagemanager/internal/domain/documents/receipt"
	"storagemanager/internal/domain/documents/shipment"
)

// --- Lines ---

// LineRequest is a new document line.
type LineRequest struct {
	ResourceID id.ID `json:"resourceId"`
	MeasureID  id.ID `json:"measureId"`
	Amount     int64 `json:"amount"`
}

// LineUpdateRequest replaces key and amount of an existing line.
type LineUpdateRequest struct {
	ID         id.ID `json:"id"`
	ResourceID id.ID `json:"resourceId"`
	MeasureID  id.ID `json:"measureId"`
	Amount     int64 `json:"amount"`
}

// LineChangesRequest is the line part of a document update.
type LineChangesRequest struct {
	CreateLines   []LineRequest       `json:"createLines"`
	UpdateLines   []LineUpdateRequest `json:"updateLines"`
	DeleteLineIDs []id.ID             `json:"deleteLineIds"`
}

func toLineInputs(lines []LineRequest) []documents.LineInput {
	out := make([]documents.LineInput, 0, len(lines))
	for _, l := range lines {
		out = append(out, documents.LineInput{ResourceID: l.ResourceID, MeasureID: l.MeasureID, Amount: l.Amount})
	}
	return out
}

// ToChanges maps the request onto domain line changes.
func (r LineChangesRequest) ToChanges() documents.LineChanges {
	changes := documents.LineChanges{
		Create: toLineInputs(r.CreateLines),
		Delete: r.DeleteLineIDs,
	}
	for _, u := range r.UpdateLines {
		changes.Update = append(changes.Update, documents.LineUpdate{
			ID:         u.ID,
			ResourceID: u.ResourceID,
			MeasureID:  u.MeasureID,
			Amount:     u.Amount,
		})
	}
	return changes
}

// LineResponse is a document line with names.
type LineResponse struct {
	ID           string `json:"id"`
	ResourceID   string `json:"resourceId"`
	ResourceName string `json:"resourceName"`
	MeasureID    string `json:"measureId"`
	MeasureName  string `json:"measureName"`
	Amount       int64  `json:"amount"`
}

// FromLines maps lines; the result is never nil.
func FromLines(lines []entity.Line) []LineResponse {
	out := make([]LineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, LineResponse{
			ID:           l.ID.String(),
			ResourceID:   l.ResourceID.String(),
			ResourceName: l.ResourceName,
			MeasureID:    l.MeasureID.String(),
			MeasureName:  l.MeasureName,
			Amount:       l.Amount,
		})
	}
	return out
}

// DocumentResponse contains document header fields.
type DocumentResponse struct {
	BaseResponse
	Number string         `json:"number"`
	Date   time.Time      `json:"date"`
	Lines  []LineResponse `json:"lines"`
}

// FromDocument creates DocumentResponse from entity.Document.
func FromDocument(d entity.Document, lines []entity.Line) DocumentResponse {
	return DocumentResponse{
		BaseResponse: BaseResponse{
			ID:        d.ID.String(),
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
		Number: d.Number,
		Date:   d.Date,
		Lines:  FromLines(lines),
	}
}

// --- Receipt ---

// CreateReceiptRequest creates a receipt with its lines.
type CreateReceiptRequest struct {
	Number string        `json:"number" binding:"required"`
	Date   time.Time     `json:"date"`
	Lines  []LineRequest `json:"lines"`
}

// ToCommand maps the request.
func (r CreateReceiptRequest) ToCommand() receipt.CreateCommand {
	return receipt.CreateCommand{Number: r.Number, Date: r.Date, Lines: toLineInputs(r.Lines)}
}

// UpdateReceiptRequest replaces the header and applies line changes.
type UpdateReceiptRequest struct {
	Number string    `json:"number" binding:"required"`
	Date   time.Time `json:"date"`
	LineChangesRequest
}

// ToCommand maps the request for document docID.
func (r UpdateReceiptRequest) ToCommand(docID id.ID) receipt.UpdateCommand {
	return receipt.UpdateCommand{ID: docID, Number: r.Number, Date: r.Date, Lines: r.ToChanges()}
}

// FromReceipt maps a receipt.
func FromReceipt(doc *receipt.Receipt) DocumentResponse {
	return FromDocument(doc.Document, doc.Lines)
}

// --- Shipment ---

// ShipmentResponse adds client and state to DocumentResponse.
type ShipmentResponse struct {
	DocumentResponse
	ClientID   string `json:"clientId"`
	ClientName string `json:"clientName"`
	Signed     bool   `json:"signed"`
}

// FromShipment maps a shipment.
func FromShipment(doc *shipment.Shipment) ShipmentResponse {
	return ShipmentResponse{
		DocumentResponse: FromDocument(doc.Document, doc.Lines),
		ClientID:         doc.ClientID.String(),
		ClientName:       doc.ClientName,
		Signed:           doc.Signed,
	}
}

// CreateShipmentRequest creates an unsigned shipment with its lines.
type CreateShipmentRequest struct {
	Number   string        `json:"number" binding:"required"`
	Date     time.Time     `json:"date"`
	ClientID id.ID         `json:"clientId"`
	Lines    []LineRequest `json:"lines"`
}

// ToCommand maps the request.
func (r CreateShipmentRequest) ToCommand() shipment.CreateCommand {
	return shipment.CreateCommand{Number: r.Number, Date: r.Date, ClientID: r.ClientID, Lines: toLineInputs(r.Lines)}
}

// UpdateShipmentRequest replaces the header, sets the state and applies line changes.
type UpdateShipmentRequest struct {
	Number   string    `json:"number" binding:"required"`
	Date     time.Time `json:"date"`
	ClientID id.ID     `json:"clientId"`
	Signed   bool      `json:"signed"`
	LineChangesRequest
}

// ToCommand maps the request for document docID.
func (r UpdateShipmentRequest) ToCommand(docID id.ID) shipment.UpdateCommand {
	return shipment.UpdateCommand{
		ID:       docID,
		Number:   r.Number,
		Date:     r.Date,
		ClientID: r.ClientID,
		Signed:   r.Signed,
		Lines:    r.ToChanges(),
	}
}

// --- List query ---

// DocumentListQuery is bound from the query string. Every list key is repeatable.
type DocumentListQuery struct {
	Numbers     []string `form:"number"`
	ResourceIDs []string `form:"resourceId"`
	MeasureIDs  []string `form:"measureId"`
	ClientIDs   []string `form:"clientId"`
	From        string   `form:"from"`
	To          string   `form:"to"`
}

// ToFilter parses ids and dates.
func (q DocumentListQuery) ToFilter() (documents.Filter, error) {
	var (
		f   documents.Filter
		err error
	)
	f.Numbers = q.Numbers
	if f.ResourceIDs, err = ParseIDs("resourceId", q.ResourceIDs); err != nil {
		return f, err
	}
	if f.MeasureIDs, err = ParseIDs("measureId", q.MeasureIDs); err != nil {
		return f, err
	}
	if f.From, err = ParseDate("from", q.From); err != nil {
		return f, err
	}
	if f.To, err = ParseDate("to", q.To); err != nil {
		return f, err
	}
	return f, nil
}

// ToShipmentFilter adds the client restriction.
func (q DocumentListQuery) ToShipmentFilter() (shipment.ListFilter, error) {
	f, err := q.ToFilter()
	if err != nil {
		return shipment.ListFilter{}, err
	}
	clients, err := ParseIDs("clientId", q.ClientIDs)
	if err != nil {
		return shipment.ListFilter{}, err
	}
	return shipment.ListFilter{Filter: f, ClientIDs: clients}, nil
}
