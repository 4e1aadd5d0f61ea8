package leave_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jdsuarez23/comfachoco/internal/domain"
	"github.com/jdsuarez23/comfachoco/internal/leave"
	leaveerrors "github.com/jdsuarez23/comfachoco/internal/leave/errors"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	createFn   func(ctx context.Context, actor domain.Actor, req leave.CreateLeaveRequest, fileName string, fileData io.Reader) (leave.CreateLeaveResponse, error)
	getMineFn  func(ctx context.Context, actor domain.Actor) ([]leave.LeaveResponse, error)
	getByIDFn  func(ctx context.Context, actor domain.Actor, id string) (leave.LeaveResponse, error)
	listAllFn  func(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveResponse, error)
	approveFn  func(ctx context.Context, actor domain.Actor, id string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error)
	rejectFn   func(ctx context.Context, actor domain.Actor, id string, req leave.RejectLeaveRequest) (leave.LeaveResponse, error)
	withdrawFn func(ctx context.Context, actor domain.Actor, id string) error
	openFileFn func(ctx context.Context, actor domain.Actor, id string) (io.ReadCloser, string, error)
}

func (f *fakeLeaveService) Create(ctx context.Context, actor domain.Actor, req leave.CreateLeaveRequest, fileName string, fileData io.Reader) (leave.CreateLeaveResponse, error) {
	return f.createFn(ctx, actor, req, fileName, fileData)
}
func (f *fakeLeaveService) GetMine(ctx context.Context, actor domain.Actor) ([]leave.LeaveResponse, error) {
	return f.getMineFn(ctx, actor)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, actor domain.Actor, id string) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, actor, id)
}
func (f *fakeLeaveService) ListAll(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveResponse, error) {
	return f.listAllFn(ctx, filter)
}
func (f *fakeLeaveService) Approve(ctx context.Context, actor domain.Actor, id string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
	return f.approveFn(ctx, actor, id, req)
}
func (f *fakeLeaveService) Reject(ctx context.Context, actor domain.Actor, id string, req leave.RejectLeaveRequest) (leave.LeaveResponse, error) {
	return f.rejectFn(ctx, actor, id, req)
}
func (f *fakeLeaveService) Withdraw(ctx context.Context, actor domain.Actor, id string) error {
	return f.withdrawFn(ctx, actor, id)
}
func (f *fakeLeaveService) OpenSupportFile(ctx context.Context, actor domain.Actor, id string) (io.ReadCloser, string, error) {
	return f.openFileFn(ctx, actor, id)
}

func setupLeaveRouter(svc leave.Service, actor domain.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("employee_id", actor.EmployeeID)
		c.Set("role", actor.Role)
		c.Set("display_name", actor.DisplayName)
		c.Next()
	})

	h := leave.NewHandler(svc)
	r.POST("/leaves", h.Create)
	r.GET("/leaves/mine", h.GetMine)
	r.GET("/leaves/:id", h.GetByID)
	r.DELETE("/leaves/:id", h.Withdraw)
	r.GET("/rrhh/leaves", h.ListAll)
	r.PUT("/rrhh/leaves/:id/approve", h.Approve)
	r.PUT("/rrhh/leaves/:id/reject", h.Reject)
	return r
}

func TestLeaveHandler_Create(t *testing.T) {
	employeeID := uuid.New().String()
	actor := domain.Actor{EmployeeID: employeeID, Role: domain.RoleEmployee}

	t.Run("success returns 201 with classification", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, a domain.Actor, req leave.CreateLeaveRequest, fileName string, fileData io.Reader) (leave.CreateLeaveResponse, error) {
				assert.Equal(t, employeeID, a.EmployeeID)
				assert.Equal(t, 3, req.DaysRequested)
				assert.Empty(t, fileName)
				return leave.CreateLeaveResponse{
					Request: leave.LeaveResponse{
						ID:                  uuid.New().String(),
						EmployeeID:          a.EmployeeID,
						DecisionState:       leave.StatePending,
						ApprovalProbability: 0.8,
					},
					Classification: leave.ClassificationSummary{
						PermitType:          "MEDICAL",
						ApprovalProbability: 0.8,
					},
				}, nil
			},
		}
		router := setupLeaveRouter(svc, actor)

		body := `{
			"reason_text": "Cita medica programada con especialista",
			"days_requested": 3,
			"start_date": "2026-03-02",
			"end_date": "2026-03-04"
		}`
		req := httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)

		var resp leave.CreateLeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, leave.StatePending, resp.Request.DecisionState)
		assert.Equal(t, "MEDICAL", resp.Classification.PermitType)
	})

	t.Run("binding failure returns 400", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, a domain.Actor, req leave.CreateLeaveRequest, fileName string, fileData io.Reader) (leave.CreateLeaveResponse, error) {
				t.Fatal("service must not be reached")
				return leave.CreateLeaveResponse{}, nil
			},
		}
		router := setupLeaveRouter(svc, actor)

		req := httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(`{"days_requested": 3}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
	})

	t.Run("service validation error is translated", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, a domain.Actor, req leave.CreateLeaveRequest, fileName string, fileData io.Reader) (leave.CreateLeaveResponse, error) {
				return leave.CreateLeaveResponse{}, leaveerrors.ErrInvalidDateRange
			},
		}
		router := setupLeaveRouter(svc, actor)

		body := `{
			"reason_text": "Cita medica programada con especialista",
			"days_requested": 3,
			"start_date": "2026-03-04",
			"end_date": "2026-03-02"
		}`
		req := httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})
}

func TestLeaveHandler_GetMine(t *testing.T) {
	actor := domain.Actor{EmployeeID: uuid.New().String(), Role: domain.RoleEmployee}

	t.Run("paginates results", func(t *testing.T) {
		rows := make([]leave.LeaveResponse, 25)
		for i := range rows {
			rows[i] = leave.LeaveResponse{ID: uuid.New().String(), DecisionState: leave.StatePending}
		}
		svc := &fakeLeaveService{
			getMineFn: func(ctx context.Context, a domain.Actor) ([]leave.LeaveResponse, error) {
				return rows, nil
			},
		}
		router := setupLeaveRouter(svc, actor)

		req := httptest.NewRequest(http.MethodGet, "/leaves/mine?page=3&page_size=10", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var env struct {
			Ok   bool                  `json:"ok"`
			Data []leave.LeaveResponse `json:"data"`
			Meta struct {
				Total      int64 `json:"total"`
				TotalPages int   `json:"totalPages"`
				Page       int   `json:"page"`
			} `json:"meta"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Len(t, env.Data, 5)
		assert.Equal(t, int64(25), env.Meta.Total)
		assert.Equal(t, 3, env.Meta.TotalPages)
		assert.Equal(t, 3, env.Meta.Page)
	})
}

func TestLeaveHandler_ListAll(t *testing.T) {
	hr := domain.Actor{EmployeeID: uuid.New().String(), Role: domain.RoleHR}

	t.Run("parses filters", func(t *testing.T) {
		var seen leave.ListFilter
		svc := &fakeLeaveService{
			listAllFn: func(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveResponse, error) {
				seen = filter
				return nil, nil
			},
		}
		router := setupLeaveRouter(svc, hr)

		req := httptest.NewRequest(http.MethodGet,
			"/rrhh/leaves?state=PENDING&permit_type=MEDICAL&from=2026-01-01&to=2026-06-30", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, leave.StatePending, seen.State)
		assert.Equal(t, "MEDICAL", seen.PermitType)
		assert.NotNil(t, seen.From)
		assert.Equal(t, "2026-01-01", seen.From.Format("2006-01-02"))
		assert.NotNil(t, seen.To)
	})
}

func TestLeaveHandler_Approve(t *testing.T) {
	hr := domain.Actor{EmployeeID: uuid.New().String(), Role: domain.RoleHR}
	requestID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, a domain.Actor, id string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, requestID, id)
				assert.Equal(t, 3, req.DaysAuthorized)
				comment := "Aprobado"
				return leave.LeaveResponse{
					ID:              id,
					DecisionState:   leave.StateAuthorized,
					DaysAuthorized:  3,
					DecisionComment: &comment,
				}, nil
			},
		}
		router := setupLeaveRouter(svc, hr)

		req := httptest.NewRequest(http.MethodPut, "/rrhh/leaves/"+requestID+"/approve",
			strings.NewReader(`{"days_authorized": 3}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)

		var resp leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, leave.StateAuthorized, resp.DecisionState)
	})

	t.Run("concurrent decision maps to 409", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, a domain.Actor, id string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrConcurrentDecision
			},
		}
		router := setupLeaveRouter(svc, hr)

		req := httptest.NewRequest(http.MethodPut, "/rrhh/leaves/"+requestID+"/approve",
			strings.NewReader(`{"days_authorized": 3}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "CONFLICT", env.Error.Code)
	})

	t.Run("caches the response and releases the lock", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		decided := leave.LeaveResponse{ID: requestID, DecisionState: leave.StateAuthorized, DaysAuthorized: 3}
		payload, _ := json.Marshal(decided)
		mock.ExpectSet("cache-key", payload, 24*time.Hour).SetVal("OK")
		mock.ExpectDel("lock-key").SetVal(1)

		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, a domain.Actor, id string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
				return decided, nil
			},
		}

		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.Use(func(c *gin.Context) {
			c.Set("employee_id", hr.EmployeeID)
			c.Set("role", hr.Role)
			c.Set("idempotency_cache_key", "cache-key")
			c.Set("idempotency_lock_key", "lock-key")
			c.Next()
		})
		h := leave.NewHandlerWithRedis(svc, rdb)
		router.PUT("/rrhh/leaves/:id/approve", h.Approve)

		req := httptest.NewRequest(http.MethodPut, "/rrhh/leaves/"+requestID+"/approve",
			strings.NewReader(`{"days_authorized": 3}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing days fails binding", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, a domain.Actor, id string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
				t.Fatal("service must not be reached")
				return leave.LeaveResponse{}, nil
			},
		}
		router := setupLeaveRouter(svc, hr)

		req := httptest.NewRequest(http.MethodPut, "/rrhh/leaves/"+requestID+"/approve",
			strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLeaveHandler_Reject(t *testing.T) {
	hr := domain.Actor{EmployeeID: uuid.New().String(), Role: domain.RoleHR}
	requestID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{
			rejectFn: func(ctx context.Context, a domain.Actor, id string, req leave.RejectLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, "Sin soporte", req.Comment)
				return leave.LeaveResponse{ID: id, DecisionState: leave.StateRejected}, nil
			},
		}
		router := setupLeaveRouter(svc, hr)

		req := httptest.NewRequest(http.MethodPut, "/rrhh/leaves/"+requestID+"/reject",
			strings.NewReader(`{"comment": "Sin soporte"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("empty comment fails binding", func(t *testing.T) {
		svc := &fakeLeaveService{
			rejectFn: func(ctx context.Context, a domain.Actor, id string, req leave.RejectLeaveRequest) (leave.LeaveResponse, error) {
				t.Fatal("service must not be reached")
				return leave.LeaveResponse{}, nil
			},
		}
		router := setupLeaveRouter(svc, hr)

		req := httptest.NewRequest(http.MethodPut, "/rrhh/leaves/"+requestID+"/reject",
			strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLeaveHandler_Withdraw(t *testing.T) {
	actor := domain.Actor{EmployeeID: uuid.New().String(), Role: domain.RoleEmployee}
	requestID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{
			withdrawFn: func(ctx context.Context, a domain.Actor, id string) error {
				assert.Equal(t, requestID, id)
				return nil
			},
		}
		router := setupLeaveRouter(svc, actor)

		req := httptest.NewRequest(http.MethodDelete, "/leaves/"+requestID, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		assert.JSONEq(t, `{"withdrawn": true}`, string(env.Data))
	})

	t.Run("forbidden for non-owner", func(t *testing.T) {
		svc := &fakeLeaveService{
			withdrawFn: func(ctx context.Context, a domain.Actor, id string) error {
				return leaveerrors.ErrNotOwner
			},
		}
		router := setupLeaveRouter(svc, actor)

		req := httptest.NewRequest(http.MethodDelete, "/leaves/"+requestID, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})
}
