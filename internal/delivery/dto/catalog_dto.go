package dto

type HospitalResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

type DepartmentResponse struct {
	ID         int    `json:"id"`
	HospitalID int    `json:"hospital_id"`
	Name       string `json:"name"`
}

type DoctorResponse struct {
	ID           int    `json:"id"`
	HospitalID   int    `json:"hospital_id"`
	DepartmentID int    `json:"department_id"`
	Name         string `json:"name"`
}
