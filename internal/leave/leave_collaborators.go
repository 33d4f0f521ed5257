package leave

import "context"

// ApproverChecker answers permission questions about a caller.
//
//go:generate mockgen -source=leave_collaborators.go -destination=mock/leave_collaborators_mock.go -package=mock
type ApproverChecker interface {
	IsApprover(ctx context.Context, userID string) (bool, error)
	CanReadAll(ctx context.Context, userID string) (bool, error)
}

type AttachmentChecker interface {
	Exists(ctx context.Context, ref string) (bool, error)
}
