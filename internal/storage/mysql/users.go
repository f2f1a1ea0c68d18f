package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"hotel_booking/internal/domain"
)

func (r *Repo) CreateUser(ctx context.Context, u *domain.User, group string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, insertUserSQL, u.Email, valStr(u.Phone), u.PasswordHash)
	if isDuplicate(err) {
		return domain.Conflict("email", "email_in_use", "Email is already in use.")
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if u.ID, err = res.LastInsertId(); err != nil {
		return err
	}

	res, err = tx.ExecContext(ctx, insertMembershipSQL, u.ID, group)
	if err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.UnknownRef("group_name", "group_not_found", fmt.Sprintf("Group '%s' does not exist.", group))
	}

	if err := tx.QueryRowContext(ctx, `SELECT created_at FROM users WHERE id = ?`, u.ID).Scan(&u.CreatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit user: %w", err)
	}
	u.Groups = []string{group}
	return nil
}

func scanUser(s scanner) (domain.User, error) {
	var u domain.User
	var phone sql.NullString
	if err := s.Scan(&u.ID, &u.Email, &phone, &u.PasswordHash, &u.CreatedAt); err != nil {
		return domain.User{}, err
	}
	u.Phone = ptrStr(phone)
	return u, nil
}

func (r *Repo) getUser(ctx context.Context, where string, arg any) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserSQL+where, arg))
	if err != nil {
		return domain.User{}, notFoundOr(err)
	}
	us := []domain.User{u}
	if err := r.loadGroups(ctx, us); err != nil {
		return domain.User{}, err
	}
	return us[0], nil
}

func (r *Repo) GetUser(ctx context.Context, id int64) (domain.User, error) {
	return r.getUser(ctx, "WHERE id = ?", id)
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getUser(ctx, "WHERE email = ?", email)
}

func (r *Repo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUserSQL+"ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, r.loadGroups(ctx, out)
}

// loadGroups fills Groups for every user in us with one query.
func (r *Repo) loadGroups(ctx context.Context, us []domain.User) error {
	if len(us) == 0 {
		return nil
	}
	ids := make([]int64, len(us))
	idx := make(map[int64][]int, len(us))
	for i, u := range us {
		ids[i] = u.ID
		idx[u.ID] = append(idx[u.ID], i)
		us[i].Groups = []string{}
	}
	ph, args := placeholders(ids)
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(selectGroupsSQL, ph), args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var uid int64
		var name string
		if err := rows.Scan(&uid, &name); err != nil {
			return err
		}
		for _, i := range idx[uid] {
			us[i].Groups = append(us[i].Groups, name)
		}
	}
	return rows.Err()
}

func (r *Repo) UpdateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, updateUserSQL, u.Email, valStr(u.Phone), u.PasswordHash, u.ID)
	if isDuplicate(err) {
		return domain.Conflict("email", "email_in_use", "Email is already in use.")
	}
	return err
}

func (r *Repo) DeleteUser(ctx context.Context, id int64) error {
	return mustAffect(r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id))
}

func (r *Repo) EmailTaken(ctx context.Context, email string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = ?)`, email).Scan(&ok)
	return ok, err
}

func (r *Repo) GroupExists(ctx context.Context, name string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM user_groups WHERE name = ?)`, name).Scan(&ok)
	return ok, err
}
