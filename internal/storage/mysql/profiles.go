package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"hotel_booking/internal/domain"
)

func scanProfile(s scanner) (domain.Profile, error) {
	var p domain.Profile
	var bio, loc, pic sql.NullString
	var birth sql.NullTime
	if err := s.Scan(&p.ID, &p.UserID, &p.Username, &bio, &birth, &loc, &pic, &p.TotalBookings); err != nil {
		return domain.Profile{}, err
	}
	p.Bio, p.BirthDate, p.Location, p.ProfilePicture = ptrStr(bio), ptrTime(birth), ptrStr(loc), ptrStr(pic)
	return p, nil
}

func (r *Repo) CreateProfile(ctx context.Context, p *domain.Profile) error {
	res, err := r.db.ExecContext(ctx, insertProfileSQL,
		p.UserID, p.Username, valStr(p.Bio), valDate(p.BirthDate), valStr(p.Location), valStr(p.ProfilePicture))
	if isDuplicate(err) {
		return domain.Conflict("user_id", "profile_exists", "profile already exists for this user")
	}
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	p.ID, err = res.LastInsertId()
	return err
}

func (r *Repo) GetProfile(ctx context.Context, id int64) (domain.Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, selectProfileSQL+"WHERE id = ?", id))
	return p, notFoundOr(err)
}

func (r *Repo) GetProfileByUser(ctx context.Context, userID int64) (domain.Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, selectProfileSQL+"WHERE user_id = ?", userID))
	return p, notFoundOr(err)
}

func (r *Repo) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.db.QueryContext(ctx, selectProfileSQL+"ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateProfile(ctx context.Context, p domain.Profile) error {
	_, err := r.db.ExecContext(ctx, updateProfileSQL,
		p.Username, valStr(p.Bio), valDate(p.BirthDate), valStr(p.Location), valStr(p.ProfilePicture), p.ID)
	return err
}

func (r *Repo) DeleteProfile(ctx context.Context, id int64) error {
	return mustAffect(r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id))
}
