package catalog

import (
	"github.com/odyssey-erp/catalog/internal/shared"
)

// BrandFallback is shown in the table for products without a brand.
const BrandFallback = "N/D"

// ExportFormats are listed in the export menu. They are labels only.
var ExportFormats = []string{"Export as CSV", "Export as Excel", "Export as PDF"}

// EditPath returns the navigation target of the edit action for a product.
func EditPath(p Product) string {
	return "/products/all-products/" + p.ID.String() + "/edit"
}

type filterRequest struct {
	Search   *string `json:"search" validate:"omitempty,max=200"`
	PageSize *int    `json:"page_size" validate:"omitempty,oneof=10 25 50 100"`
}

type productRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

// RowResponse is one table row.
type RowResponse struct {
	ID       string  `json:"id"`
	ImageURL *string `json:"image_url"`
	Type     string  `json:"type"`
	Name     string  `json:"name"`
	Code     string  `json:"code"`
	Category string  `json:"category"`
	Brand    string  `json:"brand"`
	Cost     string  `json:"cost"`
	Price    string  `json:"price"`
	Stock    string  `json:"stock"`
	EditPath string  `json:"edit_path"`
}

// DeleteResponse mirrors DeleteState.
type DeleteResponse struct {
	Phase      DeletePhase `json:"phase"`
	GateOpen   bool        `json:"gate_open"`
	Deleting   bool        `json:"deleting"`
	TargetID   string      `json:"target_id,omitempty"`
	TargetName string      `json:"target_name,omitempty"`
}

// ViewResponse is the open detail view.
type ViewResponse struct {
	ProductID string        `json:"product_id"`
	Fields    []DetailField `json:"fields"`
}

// StateResponse is the JSON rendering of a session.
type StateResponse struct {
	SessionID     string                `json:"session_id"`
	Loading       bool                  `json:"loading"`
	FetchFailed   bool                  `json:"fetch_failed"`
	Total         int                   `json:"total"`
	Matched       int                   `json:"matched"`
	Search        string                `json:"search"`
	PageSize      int                   `json:"page_size"`
	PageSizes     []int                 `json:"page_sizes"`
	Rows          []RowResponse         `json:"rows"`
	Empty         bool                  `json:"empty"`
	EmptyMessage  string                `json:"empty_message,omitempty"`
	Summary       string                `json:"summary"`
	Exports       []string              `json:"exports"`
	Delete        DeleteResponse        `json:"delete"`
	View          *ViewResponse         `json:"view"`
	Notifications []shared.Notification `json:"notifications"`
}

// PhaseResponse is returned after a confirmed delete.
type PhaseResponse struct {
	Phase DeletePhase   `json:"phase"`
	State StateResponse `json:"state"`
}

func newRowResponse(p Product) RowResponse {
	return RowResponse{
		ID:       p.ID.String(),
		ImageURL: p.ImageURL.Ptr(),
		Type:     p.Type,
		Name:     p.Name,
		Code:     p.Code,
		Category: p.Category,
		Brand:    p.Brand.OrElse(BrandFallback),
		Cost:     FormatMoney(p.Cost),
		Price:    FormatMoney(p.Price),
		Stock:    stockLabel(p),
		EditPath: EditPath(p),
	}
}

func newStateResponse(sess *Session, st State, notes []shared.Notification) StateResponse {
	rows := make([]RowResponse, 0, len(st.Visible.Rows))
	for _, p := range st.Visible.Rows {
		rows = append(rows, newRowResponse(p))
	}
	sizes := make([]int, 0, len(PageSizes))
	for _, s := range PageSizes {
		sizes = append(sizes, int(s))
	}
	resp := StateResponse{
		SessionID:     sess.ID.String(),
		Loading:       st.Loading,
		FetchFailed:   st.FetchFailed,
		Total:         st.Total,
		Matched:       st.Visible.Matched,
		Search:        st.Search,
		PageSize:      int(st.PageSize),
		PageSizes:     sizes,
		Rows:          rows,
		Empty:         st.Visible.Empty,
		Summary:       st.Visible.Summary(),
		Exports:       ExportFormats,
		Notifications: notes,
		Delete: DeleteResponse{
			Phase:    st.Delete.Phase,
			GateOpen: st.Delete.GateOpen,
			Deleting: st.Delete.Deleting,
		},
	}
	if st.Visible.Empty {
		resp.EmptyMessage = EmptyStateMessage
	}
	if t := st.Delete.Target; t != nil {
		resp.Delete.TargetID = t.ID.String()
		resp.Delete.TargetName = t.Name
	}
	if st.View != nil {
		resp.View = &ViewResponse{
			ProductID: st.View.Product.ID.String(),
			Fields:    st.View.Fields,
		}
	}
	return resp
}
