package ynab

type categoryResponse struct {
	Data struct {
		Category category `json:"category"`
	} `json:"data"`
}

type category struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Note       *string `json:"note"`
	GoalTarget *int64  `json:"goal_target"`
	Deleted    bool    `json:"deleted"`
}

type patchRequest struct {
	Category patchCategory `json:"category"`
}

type patchCategory struct {
	GoalTarget *int64  `json:"goal_target,omitempty"`
	Note       *string `json:"note,omitempty"`
}

type errorResponse struct {
	Error struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Detail string `json:"detail"`
	} `json:"error"`
}
