package mongodb

import (
	"errors"
	"taskhub/domain/models"
	"taskhub/domain/repositories"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// Documents store UUIDs as their canonical strings so records stay readable
// from the mongo shell.

type taskDocument struct {
	ID          string     `bson:"_id"`
	Content     string     `bson:"content"`
	Description string     `bson:"description,omitempty"`
	OwnerID     string     `bson:"owner_id"`
	ProjectID   string     `bson:"project_id"`
	ParentID    *string    `bson:"parent_id"`
	Priority    int        `bson:"priority"`
	DueDate     *time.Time `bson:"due_date"`
	Tags        []string   `bson:"tags"`
	IsCompleted bool       `bson:"is_completed"`
	Order       int        `bson:"sort_order"`
	CreatedAt   time.Time  `bson:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at"`
}

func newTaskDocument(t *models.Task) *taskDocument {
	doc := &taskDocument{
		ID:          t.ID.String(),
		Content:     t.Content,
		Description: t.Description,
		OwnerID:     t.OwnerID.String(),
		ProjectID:   t.ProjectID.String(),
		Priority:    int(t.Priority),
		DueDate:     t.DueDate,
		Tags:        append([]string{}, t.Tags...),
		IsCompleted: t.IsCompleted,
		Order:       t.Order,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.ParentID != nil {
		p := t.ParentID.String()
		doc.ParentID = &p
	}
	return doc
}

func (d *taskDocument) toModel() (*models.Task, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	owner, err := uuid.Parse(d.OwnerID)
	if err != nil {
		return nil, err
	}
	project, err := uuid.Parse(d.ProjectID)
	if err != nil {
		return nil, err
	}
	t := &models.Task{
		ID:          id,
		Content:     d.Content,
		Description: d.Description,
		OwnerID:     owner,
		ProjectID:   project,
		Priority:    models.PriorityFromInt(d.Priority),
		DueDate:     utc(d.DueDate),
		Tags:        append([]string{}, d.Tags...),
		IsCompleted: d.IsCompleted,
		Order:       d.Order,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
	if d.ParentID != nil {
		parent, err := uuid.Parse(*d.ParentID)
		if err != nil {
			return nil, err
		}
		t.ParentID = &parent
	}
	return t, nil
}

type projectDocument struct {
	ID        string    `bson:"_id"`
	OwnerID   string    `bson:"owner_id"`
	Name      string    `bson:"name"`
	Slug      string    `bson:"slug"`
	Color     string    `bson:"color,omitempty"`
	IsInbox   bool      `bson:"is_inbox"`
	Order     int       `bson:"sort_order"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func newProjectDocument(p *models.Project) *projectDocument {
	return &projectDocument{
		ID:        p.ID.String(),
		OwnerID:   p.OwnerID.String(),
		Name:      p.Name,
		Slug:      p.Slug,
		Color:     p.Color,
		IsInbox:   p.IsInbox,
		Order:     p.Order,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (d *projectDocument) toModel() (*models.Project, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	owner, err := uuid.Parse(d.OwnerID)
	if err != nil {
		return nil, err
	}
	return &models.Project{
		ID:        id,
		OwnerID:   owner,
		Name:      d.Name,
		Slug:      d.Slug,
		Color:     d.Color,
		IsInbox:   d.IsInbox,
		Order:     d.Order,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}, nil
}

type userDocument struct {
	ID        string    `bson:"_id"`
	Email     string    `bson:"email"`
	Username  string    `bson:"username"`
	Password  string    `bson:"password"`
	FirstName string    `bson:"first_name,omitempty"`
	LastName  string    `bson:"last_name,omitempty"`
	Role      string    `bson:"role"`
	IsActive  bool      `bson:"is_active"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func newUserDocument(u *models.User) *userDocument {
	return &userDocument{
		ID:        u.ID.String(),
		Email:     u.Email,
		Username:  u.Username,
		Password:  u.Password,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (d *userDocument) toModel() (*models.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	return &models.User{
		ID:        id,
		Email:     d.Email,
		Username:  d.Username,
		Password:  d.Password,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Role:      d.Role,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}, nil
}

type activityDocument struct {
	ID         string    `bson:"_id"`
	UserID     string    `bson:"user_id"`
	Action     string    `bson:"action"`
	EntityType string    `bson:"entity_type"`
	EntityID   string    `bson:"entity_id"`
	CreatedAt  time.Time `bson:"created_at"`
}

func (d *activityDocument) toModel() (*models.ActivityLog, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	user, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, err
	}
	entity, err := uuid.Parse(d.EntityID)
	if err != nil {
		return nil, err
	}
	return &models.ActivityLog{
		ID:         id,
		UserID:     user,
		Action:     d.Action,
		EntityType: d.EntityType,
		EntityID:   entity,
		CreatedAt:  d.CreatedAt.UTC(),
	}, nil
}

func translate(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repositories.ErrRecordNotFound
	}
	return err
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
