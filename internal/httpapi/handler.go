package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Matheusaraujo007/Lista-da-vez/internal/models"
	"github.com/Matheusaraujo007/Lista-da-vez/internal/store"

	"github.com/google/uuid"
)

// Insights produces a short motivational blurb for the sales floor
// from the day's numbers.
type Insights interface {
	DailyInsight(ctx context.Context, metrics store.Metrics) (string, error)
}

type Handler struct {
	store    store.Store
	insights Insights
	options  Options
}

type Options struct {
	AccessKey string
}

func NewHandler(st store.Store, insights Insights, options Options) *Handler {
	return &Handler{
		store:    st,
		insights: insights,
		options:  options,
	}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/api/auth/login", h.handleLogin)
	mux.HandleFunc("/api/sellers", h.requireKey(h.handleSellers))
	mux.HandleFunc("/api/sellers/", h.requireKey(h.handleSellerActions))
	mux.HandleFunc("/api/queue", h.requireKey(h.handleQueue))
	mux.HandleFunc("/api/services", h.requireKey(h.handleServices))
	mux.HandleFunc("/api/services/", h.requireKey(h.handleServiceActions))
	mux.HandleFunc("/api/metrics", h.requireKey(h.handleMetrics))
	mux.HandleFunc("/api/goals", h.requireKey(h.handleStoreGoals))
	mux.HandleFunc("/api/statuses", h.requireKey(h.handleStatuses))
	mux.HandleFunc("/api/statuses/", h.requireKey(h.handleStatusActions))
	mux.HandleFunc("/api/clients/", h.requireKey(h.handleClientLookup))
	mux.HandleFunc("/api/insights", h.requireKey(h.handleInsights))
	return mux
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type createSellerRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func (h *Handler) handleSellers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		sellers, err := h.store.ListSellers(r.Context())
		if err != nil {
			status, code, message := mapError(err)
			writeError(w, status, code, message)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"sellers": sellers})
	case http.MethodPost:
		var req createSellerRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		req.Avatar = strings.TrimSpace(req.Avatar)
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
			return
		}
		seller, err := h.store.CreateSeller(r.Context(), req.Name, req.Avatar)
		if err != nil {
			status, code, message := mapError(err)
			writeError(w, status, code, message)
			return
		}
		writeJSON(w, http.StatusCreated, seller)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type updateSellerRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type transitionRequest struct {
	Status string `json:"status"`
}

type sellerGoalsRequest struct {
	Revenue        *float64 `json:"revenue"`
	UnitsPerSale   *float64 `json:"units_per_sale"`
	AverageTicket  *float64 `json:"average_ticket"`
	ConversionRate *float64 `json:"conversion_rate"`
}

func (h *Handler) handleSellerActions(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/sellers/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	sellerID := parts[0]
	if !isValidUUID(sellerID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "seller id must be a UUID")
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.getSeller(w, r, sellerID)
		case http.MethodPatch:
			h.updateSeller(w, r, sellerID)
		case http.MethodDelete:
			h.deleteSeller(w, r, sellerID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	if len(parts) != 2 {
		http.NotFound(w, r)
		return
	}
	switch parts[1] {
	case "status":
		h.transitionSeller(w, r, sellerID)
	case "goals":
		h.updateSellerGoals(w, r, sellerID)
	case "metrics":
		h.sellerMetrics(w, r, sellerID)
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) getSeller(w http.ResponseWriter, r *http.Request, sellerID string) {
	seller, err := h.store.GetSeller(r.Context(), sellerID)
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	writeJSON(w, http.StatusOK, seller)
}

func (h *Handler) updateSeller(w http.ResponseWriter, r *http.Request, sellerID string) {
	var req updateSellerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Avatar = strings.TrimSpace(req.Avatar)
	if req.Name == "" && req.Avatar == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "nothing to update")
		return
	}
	seller, err := h.store.UpdateSellerProfile(r.Context(), sellerID, req.Name, req.Avatar)
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	writeJSON(w, http.StatusOK, seller)
}

func (h *Handler) deleteSeller(w http.ResponseWriter, r *http.Request, sellerID string) {
	if err := h.store.DeleteSeller(r.Context(), sellerID); err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) transitionSeller(w http.ResponseWriter, r *http.Request, sellerID string) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req transitionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Status = strings.TrimSpace(req.Status)
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "status is required")
		return
	}
	if req.Status == models.StatusInService {
		writeError(w, http.StatusBadRequest, "invalid_request", "IN_SERVICE is set by service assignment, not manually")
		return
	}
	if !models.IsSystemStatus(req.Status) && !isValidUUID(req.Status) {
		writeError(w, http.StatusBadRequest, "invalid_request", "status must be a system status or a custom status id")
		return
	}
	seller, err := h.store.TransitionStatus(r.Context(), sellerID, req.Status)
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	writeJSON(w, http.StatusOK, seller)
}

func (h *Handler) updateSellerGoals(w http.ResponseWriter, r *http.Request, sellerID string) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req sellerGoalsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	for _, value := range []*float64{req.Revenue, req.UnitsPerSale, req.AverageTicket, req.ConversionRate} {
		if value != nil && *value < 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "goal values must not be negative")
			return
		}
	}
	goals := models.SellerGoals{
		Revenue:        req.Revenue,
		UnitsPerSale:   req.UnitsPerSale,
		AverageTicket:  req.AverageTicket,
		ConversionRate: req.ConversionRate,
	}
	if err := h.store.UpsertSellerGoals(r.Context(), sellerID, goals); err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	seller, err := h.store.GetSeller(r.Context(), sellerID)
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	writeJSON(w, http.StatusOK, seller)
}

func (h *Handler) sellerMetrics(w http.ResponseWriter, r *http.Request, sellerID string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	from, to, ok := parseRange(w, r)
	if !ok {
		return
	}
	seller, err := h.store.GetSeller(r.Context(), sellerID)
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	records, err := h.store.ListServices(r.Context(), store.ServiceFilter{SellerID: sellerID, From: from, To: to})
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	storeGoals, err := h.store.GetStoreGoals(r.Context())
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	metrics := store.ComputeMetrics(records)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"seller_id": sellerID,
		"metrics":   metrics,
		"goals":     store.CompareGoals(metrics, seller.Goals, storeGoals),
	})
}

func (h *Handler) handleQueue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sellers, err := h.store.ListSellers(r.Context())
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	statuses, err := h.store.ListCustomStatuses(r.Context())
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	queue := store.QueueOrder(sellers, store.StatusIndex(statuses))
	writeJSON(w, http.StatusOK, map[string]interface{}{"queue": queue})
}

type assignServiceRequest struct {
	SellerID      string `json:"seller_id"`
	ClientName    string `json:"client_name"`
	ClientContact string `json:"client_contact"`
	ServiceType   string `json:"service_type"`
	Observations  string `json:"observations"`
	Override      bool   `json:"override"`
}

func (h *Handler) handleServices(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listServices(w, r)
	case http.MethodPost:
		h.assignService(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) assignService(w http.ResponseWriter, r *http.Request) {
	var req assignServiceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.SellerID = strings.TrimSpace(req.SellerID)
	req.ClientName = strings.TrimSpace(req.ClientName)
	req.ClientContact = strings.TrimSpace(req.ClientContact)
	req.ServiceType = strings.TrimSpace(req.ServiceType)

	if req.SellerID == "" || req.ClientName == "" || req.ServiceType == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "seller_id, client_name, and service_type are required")
		return
	}
	if !isValidUUID(req.SellerID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "seller_id must be a UUID")
		return
	}
	if !models.ValidServiceType(req.ServiceType) {
		writeError(w, http.StatusBadRequest, "invalid_request", "unknown service_type")
		return
	}

	record, err := h.store.AssignService(r.Context(), store.AssignServiceInput{
		SellerID:      req.SellerID,
		ClientName:    req.ClientName,
		ClientContact: req.ClientContact,
		ServiceType:   req.ServiceType,
		Observations:  strings.TrimSpace(req.Observations),
		Override:      req.Override,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (h *Handler) listServices(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseRange(w, r)
	if !ok {
		return
	}
	filter := store.ServiceFilter{
		SellerID: strings.TrimSpace(r.URL.Query().Get("seller_id")),
		Status:   strings.TrimSpace(r.URL.Query().Get("status")),
		From:     from,
		To:       to,
	}
	if filter.SellerID != "" && !isValidUUID(filter.SellerID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "seller_id must be a UUID")
		return
	}
	records, err := h.store.ListServices(r.Context(), filter)
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"services": records})
}

type completeServiceRequest struct {
	IsSale       bool    `json:"is_sale"`
	SaleValue    float64 `json:"sale_value"`
	ItemsCount   int     `json:"items_count"`
	LossReason   string  `json:"loss_reason"`
	Observations string  `json:"observations"`
}

func (h *Handler) handleServiceActions(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/services/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	serviceID := parts[0]
	if !isValidUUID(serviceID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "service id must be a UUID")
		return
	}

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		record, err := h.store.GetService(r.Context(), serviceID)
		if err != nil {
			status, code, message := mapError(err)
			writeError(w, status, code, message)
			return
		}
		writeJSON(w, http.StatusOK, record)
		return
	}

	if len(parts) != 2 {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	switch parts[1] {
	case "complete":
		h.completeService(w, r, serviceID)
	case "cancel":
		h.cancelService(w, r, serviceID)
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) completeService(w http.ResponseWriter, r *http.Request, serviceID string) {
	var req completeServiceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.LossReason = strings.TrimSpace(req.LossReason)

	// Outcome payloads are validated before any state changes.
	if req.IsSale {
		if req.SaleValue <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "sale_value must be greater than zero for a sale")
			return
		}
		if req.ItemsCount <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "items_count must be greater than zero for a sale")
			return
		}
		if req.LossReason != "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "loss_reason must be empty for a sale")
			return
		}
	} else {
		if req.LossReason == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "loss_reason is required when no sale was made")
			return
		}
		if !models.ValidLossReason(req.LossReason) {
			writeError(w, http.StatusBadRequest, "invalid_request", "unknown loss_reason")
			return
		}
		req.SaleValue = 0
		req.ItemsCount = 0
	}

	record, err := h.store.CompleteService(r.Context(), store.CompleteServiceInput{
		ServiceID:    serviceID,
		IsSale:       req.IsSale,
		SaleValue:    req.SaleValue,
		ItemsCount:   req.ItemsCount,
		LossReason:   req.LossReason,
		Observations: strings.TrimSpace(req.Observations),
		CompletedAt:  time.Now().UTC(),
	})
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) cancelService(w http.ResponseWriter, r *http.Request, serviceID string) {
	record, err := h.store.CancelService(r.Context(), serviceID)
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	from, to, ok := parseRange(w, r)
	if !ok {
		return
	}
	records, err := h.store.ListServices(r.Context(), store.ServiceFilter{From: from, To: to})
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	storeGoals, err := h.store.GetStoreGoals(r.Context())
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}

	metrics := store.ComputeMetrics(records)

	perSeller := map[string][]models.ServiceRecord{}
	for _, record := range records {
		perSeller[record.SellerID] = append(perSeller[record.SellerID], record)
	}
	type sellerMetrics struct {
		SellerID string        `json:"seller_id"`
		Metrics  store.Metrics `json:"metrics"`
	}
	breakdown := make([]sellerMetrics, 0, len(perSeller))
	for sellerID, sellerRecords := range perSeller {
		breakdown = append(breakdown, sellerMetrics{SellerID: sellerID, Metrics: store.ComputeMetrics(sellerRecords)})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"metrics": metrics,
		"goals":   store.CompareGoals(metrics, nil, storeGoals),
		"sellers": breakdown,
	})
}

type storeGoalsRequest struct {
	Revenue        float64 `json:"revenue"`
	UnitsPerSale   float64 `json:"units_per_sale"`
	AverageTicket  float64 `json:"average_ticket"`
	ConversionRate float64 `json:"conversion_rate"`
}

func (h *Handler) handleStoreGoals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		goals, err := h.store.GetStoreGoals(r.Context())
		if err != nil {
			status, code, message := mapError(err)
			writeError(w, status, code, message)
			return
		}
		writeJSON(w, http.StatusOK, goals)
	case http.MethodPut:
		var req storeGoalsRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Revenue < 0 || req.UnitsPerSale < 0 || req.AverageTicket < 0 || req.ConversionRate < 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "goal values must not be negative")
			return
		}
		goals, err := h.store.UpsertStoreGoals(r.Context(), models.StoreGoals{
			Revenue:        req.Revenue,
			UnitsPerSale:   req.UnitsPerSale,
			AverageTicket:  req.AverageTicket,
			ConversionRate: req.ConversionRate,
		})
		if err != nil {
			status, code, message := mapError(err)
			writeError(w, status, code, message)
			return
		}
		writeJSON(w, http.StatusOK, goals)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type customStatusRequest struct {
	Label    string `json:"label"`
	Icon     string `json:"icon"`
	Color    string `json:"color"`
	Behavior string `json:"behavior"`
}

func (req *customStatusRequest) validate() (models.CustomStatus, string) {
	label := strings.TrimSpace(req.Label)
	behavior := strings.TrimSpace(req.Behavior)
	if label == "" {
		return models.CustomStatus{}, "label is required"
	}
	if behavior == "" {
		behavior = models.BehaviorInactive
	}
	if behavior != models.BehaviorActive && behavior != models.BehaviorInactive {
		return models.CustomStatus{}, "behavior must be ACTIVE or INACTIVE"
	}
	return models.CustomStatus{
		Label:    label,
		Icon:     strings.TrimSpace(req.Icon),
		Color:    strings.TrimSpace(req.Color),
		Behavior: behavior,
	}, ""
}

func (h *Handler) handleStatuses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		statuses, err := h.store.ListCustomStatuses(r.Context())
		if err != nil {
			status, code, message := mapError(err)
			writeError(w, status, code, message)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"statuses": statuses})
	case http.MethodPost:
		var req customStatusRequest
		if !decodeBody(w, r, &req) {
			return
		}
		parsed, problem := req.validate()
		if problem != "" {
			writeError(w, http.StatusBadRequest, "invalid_request", problem)
			return
		}
		created, err := h.store.CreateCustomStatus(r.Context(), parsed)
		if err != nil {
			status, code, message := mapError(err)
			writeError(w, status, code, message)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleStatusActions(w http.ResponseWriter, r *http.Request) {
	statusID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/statuses/"), "/")
	if statusID == "" || strings.Contains(statusID, "/") {
		http.NotFound(w, r)
		return
	}
	if !isValidUUID(statusID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "status id must be a UUID")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req customStatusRequest
		if !decodeBody(w, r, &req) {
			return
		}
		parsed, problem := req.validate()
		if problem != "" {
			writeError(w, http.StatusBadRequest, "invalid_request", problem)
			return
		}
		parsed.StatusID = statusID
		updated, err := h.store.UpdateCustomStatus(r.Context(), parsed)
		if err != nil {
			status, code, message := mapError(err)
			writeError(w, status, code, message)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := h.store.DeleteCustomStatus(r.Context(), statusID); err != nil {
			status, code, message := mapError(err)
			writeError(w, status, code, message)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleClientLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	contact := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/clients/"), "/")
	if contact == "" || strings.Contains(contact, "/") {
		http.NotFound(w, r)
		return
	}
	client, err := h.store.GetClient(r.Context(), contact)
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (h *Handler) handleInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.insights == nil {
		writeError(w, http.StatusServiceUnavailable, "insights_unavailable", "insight generation is not configured")
		return
	}
	from, to, ok := parseRange(w, r)
	if !ok {
		return
	}
	if from.IsZero() {
		now := time.Now().UTC()
		from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	records, err := h.store.ListServices(r.Context(), store.ServiceFilter{From: from, To: to})
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	message, err := h.insights.DailyInsight(r.Context(), store.ComputeMetrics(records))
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return false
	}
	return true
}

func parseRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	from, ok := parseTimeParam(w, r, "from", false)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	to, ok := parseTimeParam(w, r, "to", true)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		writeError(w, http.StatusBadRequest, "invalid_request", "to must not be before from")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func parseTimeParam(w http.ResponseWriter, r *http.Request, name string, endOfDay bool) (time.Time, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Second)
		}
		return t, true
	}
	writeError(w, http.StatusBadRequest, "invalid_request", name+" must be an RFC 3339 timestamp or YYYY-MM-DD date")
	return time.Time{}, false
}

func isValidUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}

type errorResponse struct {
	Error responseError `json:"error"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func mapError(err error) (int, string, string) {
	switch {
	case errors.Is(err, store.ErrSellerNotFound):
		return http.StatusNotFound, "seller_not_found", "seller not found"
	case errors.Is(err, store.ErrServiceNotFound):
		return http.StatusNotFound, "service_not_found", "service not found"
	case errors.Is(err, store.ErrStatusNotFound):
		return http.StatusNotFound, "status_not_found", "custom status not found"
	case errors.Is(err, store.ErrClientNotFound):
		return http.StatusNotFound, "client_not_found", "client not found"
	case errors.Is(err, store.ErrInvalidState):
		return http.StatusConflict, "invalid_state", "current state does not allow this action"
	case errors.Is(err, store.ErrNotNextInQueue):
		return http.StatusConflict, "not_next_in_queue", "seller is not first in the queue"
	case errors.Is(err, store.ErrSellerBusy):
		return http.StatusConflict, "seller_busy", "seller already has an open service"
	default:
		return http.StatusInternalServerError, "internal_error", "internal server error"
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Error: responseError{
			Code:    code,
			Message: message,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
