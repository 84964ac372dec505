package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Server wires the dashboard API handlers to their collaborators.
type Server struct {
	cfg        Config
	source     TableSource
	risk       RiskEstimator
	classifier *Classifier
	drafter    *ReplyDrafter
	orch       *Orchestrator
}

func NewServer(cfg Config, source TableSource, risk RiskEstimator, classifier *Classifier, drafter *ReplyDrafter, orch *Orchestrator) *Server {
	return &Server{
		cfg:        cfg,
		source:     source,
		risk:       risk,
		classifier: classifier,
		drafter:    drafter,
		orch:       orch,
	}
}

func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/kpis", s.handleKPIs)
		api.GET("/dashboard", s.handleDashboard)
		api.GET("/tickets", s.handleTickets)
		api.GET("/tickets-completo", s.handleTicketsCompleto)
		api.GET("/predict", s.handlePredict)
		api.POST("/ai-clasificar", s.handleClassify)
		api.POST("/ai-respuesta", s.handleReply)
		api.GET("/ai-ticket/:id", s.handleTicketAI)
	}

	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		start := time.Now()
		c.Next()
		log.Printf("http request id=%s method=%s path=%s status=%d duration=%s",
			requestID, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func (s *Server) handleKPIs(c *gin.Context) {
	tickets, err := s.source.Fetch(c.Request.Context(), s.cfg.TicketsURL)
	if err != nil {
		writeError(c, err)
		return
	}
	kpis, err := ComputeKPIs(tickets)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, kpis)
}

func (s *Server) handleDashboard(c *gin.Context) {
	tickets, err := s.source.Fetch(c.Request.Context(), s.cfg.TicketsURL)
	if err != nil {
		writeError(c, err)
		return
	}
	kpis, err := ComputeKPIs(tickets)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, presentationKPIs(kpis))
}

func (s *Server) handleTickets(c *gin.Context) {
	tickets, err := s.source.Fetch(c.Request.Context(), s.cfg.TicketsURL)
	if err != nil {
		writeError(c, err)
		return
	}

	estado := c.Query("estado")
	if estado != "" {
		filtered := []Record{}
		for _, t := range tickets {
			if strings.EqualFold(t[colStatus], estado) {
				filtered = append(filtered, t)
			}
		}
		tickets = filtered
	}
	c.JSON(http.StatusOK, tickets)
}

func (s *Server) handleTicketsCompleto(c *gin.Context) {
	tickets, err := s.source.Fetch(c.Request.Context(), s.cfg.TicketsURL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, completeTicketView(tickets))
}

// completeTicketView normalizes the fields the specialists dashboard
// consumes: DIRECCION, AREA and TIPO REQUERIMIENTO are uppercased with
// empty values replaced by "SIN DATO", and FECHA_FINAL_ATENCION is
// reformatted from dd/mm/yyyy to yyyy-mm-dd (unparseable dates clear to "").
func completeTicketView(tickets []Record) []Record {
	out := make([]Record, 0, len(tickets))
	for _, t := range tickets {
		view := make(Record, len(t))
		for k, v := range t {
			view[k] = v
		}
		for _, col := range []string{colDireccion, colArea, colCategory} {
			val := strings.TrimSpace(view[col])
			if val == "" {
				view[col] = "SIN DATO"
			} else {
				view[col] = strings.ToUpper(val)
			}
		}
		if raw := strings.TrimSpace(view[colFinalDate]); raw != "" {
			if d, err := time.Parse("02/01/2006", raw); err == nil {
				view[colFinalDate] = d.Format("2006-01-02")
			} else {
				view[colFinalDate] = ""
			}
		}
		out = append(out, view)
	}
	return out
}

func (s *Server) handlePredict(c *gin.Context) {
	tickets, err := s.source.Fetch(c.Request.Context(), s.cfg.TicketsURL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, EstimateAll(s.risk, tickets))
}

type classifyRequest struct {
	Descripcion string `json:"descripcion"`
}

func (s *Server) handleClassify(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo JSON inválido"})
		return
	}

	rules, err := s.source.Fetch(c.Request.Context(), s.cfg.RulesURL)
	if err != nil {
		writeError(c, err)
		return
	}

	classification, err := s.classifier.Classify(c.Request.Context(), req.Descripcion, rules)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, classification)
}

func (s *Server) handleReply(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo JSON inválido"})
		return
	}
	ticket := recordFromJSON(body)

	reply, err := s.drafter.Draft(c.Request.Context(), ticket, ticket["AREA"], "")
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"respuesta_sugerida": reply})
}

func (s *Server) handleTicketAI(c *gin.Context) {
	ticketID := c.Param("id")

	tickets, err := s.source.Fetch(c.Request.Context(), s.cfg.TicketsURL)
	if err != nil {
		writeError(c, err)
		return
	}

	var ticket Record
	for _, t := range tickets {
		if t[colTicket] == ticketID {
			ticket = t
			break
		}
	}
	if ticket == nil {
		writeError(c, appErr(KindNotFound, "No se encontró el ticket "+ticketID))
		return
	}

	result, err := s.orch.HandleTicket(c.Request.Context(), ticket)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ticket":             ticket[colTicket],
		"descripcion":        ticket[colDescription],
		"clasificacion":      result.Classification,
		"especialista":       result.Specialist,
		"tdrs":               result.Deliverables,
		"respuesta_sugerida": result.Reply,
	})
}

// writeError maps the error taxonomy to status codes. Error payloads keep
// the {"error": message} shape but no longer ship with a 200.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch KindOf(err) {
	case KindEmptyInput:
		status = http.StatusBadRequest
	case KindNotFound:
		status = http.StatusNotFound
	case KindMissingField, KindEmptyDataset:
		status = http.StatusUnprocessableEntity
	case KindSourceUnavailable, KindRemoteService:
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
