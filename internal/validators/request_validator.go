package validators

// RequestCreateRequest is the emergency submission form payload. The
// descriptive fields are immutable after creation, so this is the only place
// they are validated.
type RequestCreateRequest struct {
	PatientName    string `json:"patient_name" validate:"required,not_blank,max=100"`
	PatientAge     string `json:"patient_age" validate:"required,not_blank,max=10"`
	Location       string `json:"location" validate:"required,not_blank,max=255"`
	EmergencyType  string `json:"emergency_type" validate:"required,not_blank,max=100"`
	AdditionalInfo string `json:"additional_info" validate:"omitempty,max=2000"`
}

type AssignDriverRequest struct {
	DriverID string `json:"driver_id" validate:"required,object_id"`
}

type RatingSubmitRequest struct {
	Rating   int    `json:"rating" validate:"required,rating_value"`
	Feedback string `json:"feedback" validate:"omitempty,max=1000"`
}

type MessageSendRequest struct {
	Text string `json:"text" validate:"required,not_blank,max=1000"`
}

type AvailabilityUpdateRequest struct {
	Available *bool `json:"available" validate:"required"`
}

type ScheduleUpdateRequest struct {
	OnSchedule *bool `json:"on_schedule" validate:"required"`
}

type LocationUpdateRequest struct {
	Location string `json:"location" validate:"required,not_blank,max=255"`
}

func ValidateRequestCreate(req *RequestCreateRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateAssignDriver(req *AssignDriverRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateRatingSubmit(req *RatingSubmitRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateMessageSend(req *MessageSendRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateAvailabilityUpdate(req *AvailabilityUpdateRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateScheduleUpdate(req *ScheduleUpdateRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateLocationUpdate(req *LocationUpdateRequest) ValidationErrors {
	return ValidateStruct(req)
}
