package inventory

import (
	"fmt"

	"olilab/models"
)

// actor 返回执行命令的已批准用户
func actor(s *models.State, id string) (*models.User, error) {
	i := s.UserIndex(id)
	if i < 0 || s.Users[i].Status != models.UserApproved {
		return nil, fmt.Errorf("%w: actor %q is not an approved user", ErrForbidden, id)
	}
	return &s.Users[i], nil
}

func requireAdmin(s *models.State, id string) error {
	u, err := actor(s, id)
	if err != nil {
		return err
	}
	if !u.IsAdmin {
		return fmt.Errorf("%w: admin required", ErrForbidden)
	}
	return nil
}

// requireSelfOrAdmin 本人或管理员
func requireSelfOrAdmin(s *models.State, id, owner string) error {
	u, err := actor(s, id)
	if err != nil {
		return err
	}
	if u.IsAdmin || u.ID == owner {
		return nil
	}
	return fmt.Errorf("%w: only the owner or an admin may do this", ErrForbidden)
}
