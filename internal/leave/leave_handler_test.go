package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/middleware"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool                     `json:"ok"`
	Data  json.RawMessage          `json:"data"`
	Meta  *response.PaginationMeta `json:"meta"`
	Error *apiError                `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	assert.NoError(t, json.Unmarshal(body, &env))
	return env
}

func init() {
	gin.SetMode(gin.TestMode)
	apperror.Init()
}

type fakeLeaveService struct {
	leave.Service

	submitFn   func(ctx context.Context, actorID string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error)
	approveFn  func(ctx context.Context, actorID, id, comment string) (leave.LeaveResponse, error)
	deleteFn   func(ctx context.Context, actorID, id string) error
	listFn     func(ctx context.Context, actorID string, q leave.ListLeavesQuery) (leave.ListResult, error)
	getByIDFn  func(ctx context.Context, actorID, id string) (leave.LeaveResponse, error)
	editFn     func(ctx context.Context, actorID, id string, req leave.EditLeaveRequest) (leave.LeaveResponse, error)
	approvalFn func(ctx context.Context, actorID string) (leave.ApprovalStatsResponse, error)
}

func (f *fakeLeaveService) Submit(ctx context.Context, actorID string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
	return f.submitFn(ctx, actorID, req)
}

func (f *fakeLeaveService) Approve(ctx context.Context, actorID, id, comment string) (leave.LeaveResponse, error) {
	return f.approveFn(ctx, actorID, id, comment)
}

func (f *fakeLeaveService) Delete(ctx context.Context, actorID, id string) error {
	return f.deleteFn(ctx, actorID, id)
}

func (f *fakeLeaveService) List(ctx context.Context, actorID string, q leave.ListLeavesQuery) (leave.ListResult, error) {
	return f.listFn(ctx, actorID, q)
}

func (f *fakeLeaveService) GetByID(ctx context.Context, actorID, id string) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, actorID, id)
}

func (f *fakeLeaveService) Edit(ctx context.Context, actorID, id string, req leave.EditLeaveRequest) (leave.LeaveResponse, error) {
	return f.editFn(ctx, actorID, id, req)
}

func (f *fakeLeaveService) GetApprovalStats(ctx context.Context, actorID string) (leave.ApprovalStatsResponse, error) {
	return f.approvalFn(ctx, actorID)
}

func newTestContext(method, target, body, actorID string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	if actorID != "" {
		c.Set(middleware.ContextUserIDValidated, actorID)
	}
	return c, w
}

const submitBody = `{
	"type": "ANNUAL",
	"start_date": "2026-07-01 09:00:00",
	"end_date": "2026-07-03 18:00:00",
	"amount": "3",
	"reason": "family wedding"
}`

func TestLeaveHandler_Submit(t *testing.T) {
	actorID := uuid.NewString()

	t.Run("created", func(t *testing.T) {
		svc := &fakeLeaveService{
			submitFn: func(ctx context.Context, aid string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, "2026-07-01 09:00:00", req.StartDate)
				return leave.LeaveResponse{ID: uuid.NewString(), Status: "PENDING", Amount: "3.00"}, nil
			},
		}
		h := leave.NewHandler(svc, nil)
		c, w := newTestContext(http.MethodPost, "/leaves", submitBody, actorID)

		h.Submit(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "PENDING", got.Status)
	})

	t.Run("binding failure never reaches the service", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{}, nil)
		body := strings.Replace(submitBody, `"2026-07-01 09:00:00"`, `"2026-07-01"`, 1)
		c, w := newTestContext(http.MethodPost, "/leaves", body, actorID)

		h.Submit(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperror.CodeValidation, decodeEnvelope(t, w.Body.Bytes()).Error.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{}, nil)
		c, w := newTestContext(http.MethodPost, "/leaves", submitBody, "")

		h.Submit(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apperror.CodeUnauthorized, decodeEnvelope(t, w.Body.Bytes()).Error.Code)
	})

	t.Run("overlap maps to conflict", func(t *testing.T) {
		svc := &fakeLeaveService{
			submitFn: func(ctx context.Context, aid string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrLeaveOverlap
			},
		}
		h := leave.NewHandler(svc, nil)
		c, w := newTestContext(http.MethodPost, "/leaves", submitBody, actorID)

		h.Submit(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, apperror.CodeConflict, decodeEnvelope(t, w.Body.Bytes()).Error.Code)
	})
}

func TestLeaveHandler_Approve(t *testing.T) {
	actorID := uuid.NewString()
	leaveID := uuid.NewString()

	t.Run("empty body means no comment", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, aid, id, comment string) (leave.LeaveResponse, error) {
				assert.Equal(t, leaveID, id)
				assert.Empty(t, comment)
				return leave.LeaveResponse{ID: id, Status: "APPROVED"}, nil
			},
		}
		h := leave.NewHandler(svc, nil)
		c, w := newTestContext(http.MethodPut, "/leaves/"+leaveID+"/approve", "", actorID)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("empty chunked body means no comment", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, aid, id, comment string) (leave.LeaveResponse, error) {
				assert.Empty(t, comment)
				return leave.LeaveResponse{ID: id, Status: "APPROVED"}, nil
			},
		}
		h := leave.NewHandler(svc, nil)
		c, w := newTestContext(http.MethodPut, "/leaves/"+leaveID+"/approve", "", actorID)
		c.Request.ContentLength = -1
		c.Request.TransferEncoding = []string{"chunked"}
		c.Params = gin.Params{{Key: "id", Value: leaveID}}

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("malformed body is still rejected", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{}, nil)
		c, w := newTestContext(http.MethodPut, "/leaves/"+leaveID+"/approve", `{"comment":`, actorID)
		c.Request.ContentLength = -1
		c.Params = gin.Params{{Key: "id", Value: leaveID}}

		h.Approve(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, w.Body.Bytes()).Error.Code)
	})

	t.Run("comment is passed through", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, aid, id, comment string) (leave.LeaveResponse, error) {
				assert.Equal(t, "enjoy", comment)
				return leave.LeaveResponse{ID: id, Status: "APPROVED"}, nil
			},
		}
		h := leave.NewHandler(svc, nil)
		c, w := newTestContext(http.MethodPut, "/leaves/"+leaveID+"/approve", `{"comment":"enjoy"}`, actorID)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("state conflict", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, aid, id, comment string) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
			},
		}
		h := leave.NewHandler(svc, nil)
		c, w := newTestContext(http.MethodPut, "/leaves/"+leaveID+"/approve", "", actorID)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}

		h.Approve(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, apperror.CodeInvalidState, decodeEnvelope(t, w.Body.Bytes()).Error.Code)
	})

	t.Run("forbidden", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, aid, id, comment string) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrNotApprover
			},
		}
		h := leave.NewHandler(svc, nil)
		c, w := newTestContext(http.MethodPut, "/leaves/"+leaveID+"/approve", "", actorID)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}

		h.Approve(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestLeaveHandler_Delete(t *testing.T) {
	actorID := uuid.NewString()
	svc := &fakeLeaveService{
		deleteFn: func(ctx context.Context, aid, id string) error {
			if id == "missing" {
				return leaveerrors.ErrLeaveNotFound
			}
			return nil
		},
	}
	h := leave.NewHandler(svc, nil)

	c, w := newTestContext(http.MethodDelete, "/leaves/x", "", actorID)
	c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}
	h.Delete(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":true}`, string(decodeEnvelope(t, w.Body.Bytes()).Data))

	c, w = newTestContext(http.MethodDelete, "/leaves/missing", "", actorID)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	h.Delete(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLeaveHandler_List(t *testing.T) {
	actorID := uuid.NewString()
	svc := &fakeLeaveService{
		listFn: func(ctx context.Context, aid string, q leave.ListLeavesQuery) (leave.ListResult, error) {
			assert.Equal(t, "PENDING", q.Status)
			assert.Equal(t, 2, q.Page)
			assert.Equal(t, 5, q.PageSize)
			return leave.ListResult{
				Items:    []leave.LeaveResponse{{ID: uuid.NewString()}},
				Total:    11,
				Page:     2,
				PageSize: 5,
			}, nil
		},
	}
	h := leave.NewHandler(svc, nil)
	c, w := newTestContext(http.MethodGet, "/leaves?status=PENDING&page=2&page_size=5", "", actorID)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	assert.NotNil(t, env.Meta)
	assert.Equal(t, int64(11), env.Meta.Total)
	assert.Equal(t, 3, env.Meta.TotalPages)
}

func TestLeaveHandler_GetByID_NotVisible(t *testing.T) {
	svc := &fakeLeaveService{
		getByIDFn: func(ctx context.Context, aid, id string) (leave.LeaveResponse, error) {
			return leave.LeaveResponse{}, leaveerrors.ErrNotVisible
		},
	}
	h := leave.NewHandler(svc, nil)
	c, w := newTestContext(http.MethodGet, "/leaves/x", "", uuid.NewString())
	c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperror.CodeForbidden, decodeEnvelope(t, w.Body.Bytes()).Error.Code)
}

func TestLeaveHandler_Edit_PartialBody(t *testing.T) {
	svc := &fakeLeaveService{
		editFn: func(ctx context.Context, aid, id string, req leave.EditLeaveRequest) (leave.LeaveResponse, error) {
			assert.Nil(t, req.StartDate)
			assert.Equal(t, "2", *req.Amount)
			return leave.LeaveResponse{ID: id, Amount: "2.00"}, nil
		},
	}
	h := leave.NewHandler(svc, nil)
	c, w := newTestContext(http.MethodPut, "/leaves/x", `{"amount":"2"}`, uuid.NewString())
	c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}

	h.Edit(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLeaveHandler_GetApprovalStats(t *testing.T) {
	svc := &fakeLeaveService{
		approvalFn: func(ctx context.Context, aid string) (leave.ApprovalStatsResponse, error) {
			return leave.ApprovalStatsResponse{PendingCount: 1, ApprovedByMeCount: 1, RejectedByMeCount: 1, DecidedByMeCount: 2}, nil
		},
	}
	h := leave.NewHandler(svc, nil)
	c, w := newTestContext(http.MethodGet, "/leaves/approvals/stats", "", uuid.NewString())

	h.GetApprovalStats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"pending_count":1,"approved_by_me_count":1,"rejected_by_me_count":1,"decided_by_me_count":2}`,
		string(decodeEnvelope(t, w.Body.Bytes()).Data))
}

func TestLeaveHandler_ListLeaveTypes(t *testing.T) {
	h := leave.NewHandler(&fakeLeaveService{}, nil)
	c, w := newTestContext(http.MethodGet, "/leave-types", "", "")

	h.ListLeaveTypes(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []leave.LeaveTypeResponse
	assert.NoError(t, json.Unmarshal(decodeEnvelope(t, w.Body.Bytes()).Data, &got))
	assert.Len(t, got, 4)
	assert.Equal(t, "COMPENSATORY", got[0].Value)
}
