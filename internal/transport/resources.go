package transport

import (
	"net/http"

	"github.com/rpggio/procboard/internal/domain/card"
	"github.com/rpggio/procboard/internal/domain/chart"
)

type listBody struct {
	Title string `json:"title"`
}

type chartBody struct {
	ChartType *string `json:"chart_type"`
	Filter    *string `json:"filter"`
	Period    *string `json:"period"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *Server) listLists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.svc.Lists.List(r.Context(), urlParam(r, "process"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (s *Server) createList(w http.ResponseWriter, r *http.Request) {
	var body listBody
	if err := decodeBody(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	created, err := s.svc.Lists.Create(r.Context(), urlParam(r, "process"), body.Title)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateList(w http.ResponseWriter, r *http.Request) {
	var body listBody
	if err := decodeBody(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	updated, err := s.svc.Lists.Update(r.Context(), urlParam(r, "process"), urlParam(r, "id"), body.Title)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteList(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Lists.Delete(r.Context(), urlParam(r, "process"), urlParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) listCards(w http.ResponseWriter, r *http.Request) {
	opts := card.ListOptions{ListID: r.URL.Query().Get("list_id")}
	cards, err := s.svc.Cards.List(r.Context(), urlParam(r, "process"), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) getCard(w http.ResponseWriter, r *http.Request) {
	c, err := s.svc.Cards.Get(r.Context(), urlParam(r, "process"), urlParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) createCard(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := card.DecodeCreateRequest(data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	created, err := s.svc.Cards.Create(r.Context(), urlParam(r, "process"), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateCard(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	patch, err := card.DecodePatch(data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	updated, err := s.svc.Cards.Update(r.Context(), urlParam(r, "process"), urlParam(r, "id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteCard(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.svc.Cards.Delete(r.Context(), urlParam(r, "process"), urlParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deleted)
}

func (s *Server) listCharts(w http.ResponseWriter, r *http.Request) {
	charts, err := s.svc.Charts.List(r.Context(), urlParam(r, "process"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, charts)
}

func (s *Server) createChart(w http.ResponseWriter, r *http.Request) {
	var body chartBody
	if err := decodeBody(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	created, err := s.svc.Charts.Create(r.Context(), urlParam(r, "process"), chart.Fields{
		ChartType: deref(body.ChartType),
		Filter:    deref(body.Filter),
		Period:    deref(body.Period),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateChart(w http.ResponseWriter, r *http.Request) {
	var body chartBody
	if err := decodeBody(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	updated, err := s.svc.Charts.Update(r.Context(), urlParam(r, "process"), urlParam(r, "id"), chart.Patch{
		ChartType: body.ChartType,
		Filter:    body.Filter,
		Period:    body.Period,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteChart(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.svc.Charts.Delete(r.Context(), urlParam(r, "process"), urlParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deleted)
}
