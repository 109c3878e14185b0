package service

import (
	"errors"

	"gorm.io/gorm"

	"thinkfinity_backend/internals/features/classes/model"
)

// RoleInClass returns the stored membership role for (class, user), or ""
// when the user is not a member.
func RoleInClass(db *gorm.DB, classID, userID uint64) (string, error) {
	var m model.ClassMemberModel
	err := db.Select("role").
		Where("class_id = ? AND user_id = ?", classID, userID).
		Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return m.Role, nil
}

// HasRole reports whether the user holds one of the given roles in the class.
// This is the single authorization capability check; handlers do not run
// their own role queries.
func HasRole(db *gorm.DB, classID, userID uint64, roles ...string) (bool, error) {
	role, err := RoleInClass(db, classID, userID)
	if err != nil {
		return false, err
	}
	for _, r := range roles {
		if role == r {
			return true, nil
		}
	}
	return false, nil
}
