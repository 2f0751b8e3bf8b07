package seeder

import (
	"math"
	"math/rand"
)

const (
	firstStudentID = 1000001
	studentCount   = 10
)

var (
	givenNames = []string{"John", "Jane", "Alice", "Bob", "Charlie", "Daisy", "Ethan", "Fiona", "George", "Hannah"}
	lastNames  = []string{"Doe", "Smith", "Brown", "Davis", "Evans", "Foster", "Green", "Hill", "Irvine"}
	unitTitles = []string{
		"Psychology", "Computing", "Mathematics", "Physics", "Chemistry",
		"Biology", "Engineering", "Medicine", "Law", "Art",
		"History", "Philosophy", "Economics", "Political Science",
	}
)

type Student struct {
	StudentID int64  `parquet:"student_id"`
	GivenName string `parquet:"given_name"`
	LastName  string `parquet:"last_name"`
	Age       int32  `parquet:"age"`
	Gender    string `parquet:"gender"`
}

type Enrolment struct {
	StudentID int64  `parquet:"student_id"`
	UnitTitle string `parquet:"unit_title"`
}

type Grade struct {
	StudentID int64   `parquet:"student_id"`
	Grade     float64 `parquet:"grade"`
}

type Dataset struct {
	Students   []Student
	Enrolments []Enrolment
	Grades     []Grade
}

// Generate builds the evaluation fixture deterministically from the seed.
// Every student gets exactly one grade; enrolments are drawn with
// replacement, so a student can appear in several units or none.
func Generate(seed int64, enrolmentCount int) Dataset {
	rnd := rand.New(rand.NewSource(seed))

	students := make([]Student, 0, studentCount)
	for id := int64(firstStudentID); id < firstStudentID+studentCount; id++ {
		students = append(students, Student{
			StudentID: id,
			GivenName: pickOne(rnd, givenNames),
			LastName:  pickOne(rnd, lastNames),
			Age:       int32(18 + rnd.Intn(8)),
			Gender:    pickOne(rnd, []string{"Male", "Female"}),
		})
	}

	enrolments := make([]Enrolment, 0, enrolmentCount)
	for i := 0; i < enrolmentCount; i++ {
		enrolments = append(enrolments, Enrolment{
			StudentID: firstStudentID + int64(rnd.Intn(studentCount)),
			UnitTitle: pickOne(rnd, unitTitles),
		})
	}

	grades := make([]Grade, 0, studentCount)
	for id := int64(firstStudentID); id < firstStudentID+studentCount; id++ {
		grades = append(grades, Grade{
			StudentID: id,
			Grade:     round2(50 + rnd.Float64()*50),
		})
	}

	return Dataset{Students: students, Enrolments: enrolments, Grades: grades}
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func pickOne(r *rand.Rand, values []string) string {
	return values[r.Intn(len(values))]
}
