package config

import "github.com/studylite/studylite-backend/internal/model"

// Subjects is the build-time subject catalog.
var Subjects = []model.Subject{
	model.NewSubject("math", "Mathematics"),
	model.NewSubject("chemistry", "Chemistry"),
	model.NewSubject("biology", "Biology"),
	model.NewSubject("computer", "Computer Science"),
	model.NewSubject("physics", "Physics"),
}
