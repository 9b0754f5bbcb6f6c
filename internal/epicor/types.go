package epicor

// CaseStatus is the read-only snapshot GetStatus returns for a case.
type CaseStatus struct {
	CaseOwner            string
	CaseContact          string
	InternalContact      string
	CaseDescription      string
	ProjectID            string
	PartNum              string
	UnitPrice            float64
	Qty                  float64
	WBSPhaseID           string
	WBSPhaseOp           int
	CurrentTask          string
	CurrentTaskAssignee  string
	Developer            string
	RequestedDelivery    string
	StartDate            string
	ExpectedDeliveryDate string
	EstimatedHours       float64
	HoursScheduled       float64
	HoursApplied         float64
	BilledPercent        float64
}

// Wire types. Payload shapes are owned by the Epicor function library; the
// PascalCase names are its own.

type authResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type caseRequest struct {
	CaseNum string `json:"CaseNum"`
}

type getCaseTaskResponse struct {
	Error                 bool   `json:"Error"`
	Message               string `json:"Message"`
	HasActiveTask         bool   `json:"HasActiveTask"`
	CurrentTask           string `json:"CurrentTask"`
	CurrentTaskAssignedTo string `json:"CurrentTaskAssignedTo"`
}

type completeTaskRequest struct {
	CaseNum          string `json:"CaseNum"`
	AssignNextToName string `json:"AssignNextToName"`
	Comment          string `json:"Comment,omitempty"`
}

type completeTaskResponse struct {
	Error                    bool   `json:"Error"`
	Message                  string `json:"Message"`
	AuthorizedToCompleteTask bool   `json:"AuthorizedToCompleteTask"`
	MultipleSalesRepMatches  bool   `json:"MultipleSalesRepMatches"`
	NoSalesRepMatch          bool   `json:"NoSalesRepMatch"`
}

type caseStatusResponse struct {
	Error                bool    `json:"Error"`
	Message              string  `json:"Message"`
	CaseFound            bool    `json:"CaseFound"`
	ProjectID            string  `json:"ProjectID"`
	CaseDescription      string  `json:"CaseDescription"`
	PartNum              string  `json:"PartNum"`
	Qty                  float64 `json:"Qty"`
	UnitPrice            float64 `json:"UnitPrice"`
	CaseOwner            string  `json:"CaseOwner"`
	InternalContact      string  `json:"InternalContact"`
	CaseContact          string  `json:"CaseContact"`
	CurrentTask          string  `json:"CurrentTask"`
	CurrentTaskAssigned  string  `json:"CurrentTaskAssignedTo"`
	RequestedDelivery    string  `json:"RequestedDelivery"`
	StartDate            string  `json:"StartDate"`
	ExpectedDeliveryDate string  `json:"ExpectedDeliveryDate"`
	Developer            string  `json:"Developer"`
	WBSPhaseID           string  `json:"WBSPhaseID"`
	WBSPhaseOp           int     `json:"WBSPhaseOp"`
	EstimatedHours       float64 `json:"EstimatedHours"`
	HoursScheduled       float64 `json:"HoursScheduled"`
	HoursApplied         float64 `json:"HoursApplied"`
	BilledPercent        float64 `json:"BilledPercent"`
}

func (r caseStatusResponse) toCaseStatus() CaseStatus {
	return CaseStatus{
		CaseOwner:            r.CaseOwner,
		CaseContact:          r.CaseContact,
		InternalContact:      r.InternalContact,
		CaseDescription:      r.CaseDescription,
		ProjectID:            r.ProjectID,
		PartNum:              r.PartNum,
		UnitPrice:            r.UnitPrice,
		Qty:                  r.Qty,
		WBSPhaseID:           r.WBSPhaseID,
		WBSPhaseOp:           r.WBSPhaseOp,
		CurrentTask:          r.CurrentTask,
		CurrentTaskAssignee:  r.CurrentTaskAssigned,
		Developer:            r.Developer,
		RequestedDelivery:    r.RequestedDelivery,
		StartDate:            r.StartDate,
		ExpectedDeliveryDate: r.ExpectedDeliveryDate,
		EstimatedHours:       r.EstimatedHours,
		HoursScheduled:       r.HoursScheduled,
		HoursApplied:         r.HoursApplied,
		BilledPercent:        r.BilledPercent,
	}
}

type addCommentRequest struct {
	CaseNum string `json:"CaseNum"`
	Comment string `json:"Comment"`
}

type addCommentResponse struct {
	Error   bool   `json:"Error"`
	Message string `json:"Message"`
}

type lastCommentResponse struct {
	Error   bool   `json:"Error"`
	Message string `json:"Message"`
	Comment string `json:"Comment"`
}

type updateQuoteRequest struct {
	CaseNum string  `json:"CaseNum"`
	Qty     float64 `json:"Qty"`
}

type updateQuoteResponse struct {
	Error   bool   `json:"Error"`
	Message string `json:"Message"`
}
