package database

import (
	"log"

	"gorm.io/gorm"

	assignmentModel "thinkfinity_backend/internals/features/assignments/model"
	classModel "thinkfinity_backend/internals/features/classes/model"
	messageModel "thinkfinity_backend/internals/features/messages/model"
	userModel "thinkfinity_backend/internals/features/users/model"
)

// Migrate brings the schema up to date. It runs exactly once at boot;
// request handlers never touch DDL.
func Migrate(db *gorm.DB) error {
	log.Println("[INFO] Running schema migration...")
	if err := db.AutoMigrate(
		&userModel.UserModel{},
		&userModel.SessionModel{},
		&classModel.ClassModel{},
		&classModel.ClassMemberModel{},
		&assignmentModel.AssignmentModel{},
		&assignmentModel.SubmissionModel{},
		&messageModel.MessageModel{},
	); err != nil {
		return err
	}
	log.Println("[INFO] Schema migration done.")
	return nil
}
