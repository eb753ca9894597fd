package httpapi

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/po-tracker/internal/repository"
)

const maxRegisterBytes = 1 << 20

func (s *Server) registerPO(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRegisterBytes))
	if err != nil {
		fail(w, r, http.StatusBadRequest, "could not read body")
		return
	}
	id, err := s.deps.PurchaseOrders.Register(r.Context(), body)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	ok(w, r, "purchase order registered", map[string]string{"poId": id.String()})
}

func (s *Server) getPO(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "poID"))
	if err != nil {
		fail(w, r, http.StatusBadRequest, "invalid PO id")
		return
	}
	po, err := s.deps.PurchaseOrders.Get(r.Context(), id)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	ok(w, r, "", po)
}

// exportPOs streams an XLSX workbook. Query: customer, from, to (YYYY-MM-DD, inclusive), limit.
func (s *Server) exportPOs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.ListFilter{Customer: strings.TrimSpace(q.Get("customer"))}

	if v := q.Get("from"); v != "" {
		d, err := time.Parse(time.DateOnly, v)
		if err != nil {
			fail(w, r, http.StatusBadRequest, "from must be YYYY-MM-DD")
			return
		}
		f.From = d
	}
	if v := q.Get("to"); v != "" {
		d, err := time.Parse(time.DateOnly, v)
		if err != nil {
			fail(w, r, http.StatusBadRequest, "to must be YYYY-MM-DD")
			return
		}
		f.To = d.AddDate(0, 0, 1)
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			fail(w, r, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		f.Limit = n
	}

	var buf bytes.Buffer
	n, err := s.deps.PurchaseOrders.Export(r.Context(), f, &buf)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	name := fmt.Sprintf("purchase_orders_%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("X-Row-Count", strconv.Itoa(n))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
