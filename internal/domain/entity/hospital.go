package entity

// Hospital, Department and Doctor form the static reference hierarchy. The
// scheduling core reads them only to resolve locations and validate ids.

type Hospital struct {
	ID       int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Location string `gorm:"type:varchar(255);not null" json:"location"`

	Departments []Department `gorm:"foreignKey:HospitalID" json:"departments,omitempty"`
}

func (Hospital) TableName() string {
	return "hospitals"
}

type Department struct {
	ID         int    `gorm:"primaryKey;autoIncrement" json:"id"`
	HospitalID int    `gorm:"not null;index" json:"hospital_id"`
	Name       string `gorm:"type:varchar(255);not null" json:"name"`

	Hospital Hospital `gorm:"foreignKey:HospitalID" json:"hospital,omitempty"`
	Doctors  []Doctor `gorm:"foreignKey:DepartmentID" json:"doctors,omitempty"`
}

func (Department) TableName() string {
	return "departments"
}

type Doctor struct {
	ID           int    `gorm:"primaryKey;autoIncrement" json:"id"`
	HospitalID   int    `gorm:"not null;index" json:"hospital_id"`
	DepartmentID int    `gorm:"not null;index" json:"department_id"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`

	Hospital   Hospital   `gorm:"foreignKey:HospitalID" json:"hospital,omitempty"`
	Department Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}
