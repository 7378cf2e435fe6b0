// Package domain defines the persistence models for projects, product
// features, the product catalog, and audit entries. These types are mapped
// with GORM and form the core data layer of the board application.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Project statuses as shown on the board.
const (
	ProjectStatusPlanning   = "planning"
	ProjectStatusInProgress = "in-progress"
	ProjectStatusDeployed   = "deployed"
	ProjectStatusCompleted  = "completed"
)

// Project represents a portfolio project and the set of product features it
// uses and has deployed. Feature id lists are stored as JSON columns; the
// service layer enforces that every referenced id resolves to a real
// ProductFeature.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Name: human-readable project name, unique-ish but not enforced.
//   - Status: planning | in-progress | deployed | completed.
//   - Progress: completion percentage [0,100].
//   - FeaturesUsed / DeployedFeatures: feature id lists (JSON).
//   - Location: optional "City, Country" free text.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type Project struct {
	ID               string         `json:"id"                gorm:"type:char(36);primaryKey"`
	Name             string         `json:"name"              gorm:"type:varchar(255);not null"`
	Status           string         `json:"status"            gorm:"type:varchar(32);not null;default:'planning';check:status IN ('planning','in-progress','deployed','completed')"`
	StartDate        string         `json:"startDate"         gorm:"type:varchar(32)"`
	EndDate          string         `json:"endDate"           gorm:"type:varchar(32)"`
	Progress         int            `json:"progress"          gorm:"not null;default:0"`
	Description      string         `json:"description"       gorm:"type:text"`
	Location         string         `json:"location,omitempty" gorm:"type:varchar(128)"`
	FeaturesUsed     []string       `json:"featuresUsed"      gorm:"serializer:json;type:text"`
	DeployedFeatures []string       `json:"deployedFeatures"  gorm:"serializer:json;type:text"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-"                 gorm:"index"`
}

// TableName returns the database table name for Project.
func (Project) TableName() string { return "projects" }

// UsesFeature reports whether the given feature id appears in FeaturesUsed.
func (p *Project) UsesFeature(featureID string) bool {
	for _, id := range p.FeaturesUsed {
		if id == featureID {
			return true
		}
	}
	return false
}

// ProductFeature is a single capability from the product portfolio that
// projects can enable and deploy (e.g. "User Authentication" / Security).
type ProductFeature struct {
	ID          string         `json:"id"          gorm:"type:char(36);primaryKey"`
	Name        string         `json:"name"        gorm:"type:varchar(255);not null"`
	Category    string         `json:"category"    gorm:"type:varchar(64);not null;index"`
	Description string         `json:"description" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"           gorm:"index"`
}

// TableName returns the database table name for ProductFeature.
func (ProductFeature) TableName() string { return "product_features" }

// Product is a catalog entry tying a sellable product to its user-manual
// module. ManualURL points at the module fragment consumed by manual
// generation; DisplayOrder controls catalog and manual ordering.
type Product struct {
	ID           string         `json:"id"            gorm:"type:char(36);primaryKey"`
	Name         string         `json:"name"          gorm:"type:varchar(255);not null"`
	Description  string         `json:"description"   gorm:"type:text"`
	ManualURL    string         `json:"manualUrl"     gorm:"type:varchar(1024)"`
	DisplayOrder int            `json:"displayOrder"  gorm:"not null;default:0;index"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"             gorm:"index"`
}

// TableName returns the database table name for Product.
func (Product) TableName() string { return "products" }

// FeatureProduct links a product feature to the product that ships it, so
// manual generation can resolve project features to product manuals.
type FeatureProduct struct {
	FeatureID string `json:"feature_id" gorm:"type:char(36);primaryKey"`
	ProductID string `json:"product_id" gorm:"type:char(36);primaryKey;index"`

	Feature ProductFeature `json:"-" gorm:"foreignKey:FeatureID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Product Product        `json:"-" gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for FeatureProduct.
func (FeatureProduct) TableName() string { return "feature_products" }

// CategoryOrder persists the user-arranged display order of feature
// categories. A single row holds the full list; categories missing from it
// sort alphabetically after the ordered ones.
type CategoryOrder struct {
	ID        uint      `json:"-"     gorm:"primaryKey"`
	Names     []string  `json:"names" gorm:"serializer:json;type:text"`
	UpdatedAt time.Time `json:"-"`
}

// TableName returns the database table name for CategoryOrder.
func (CategoryOrder) TableName() string { return "category_orders" }

// Audit actions and entity kinds recorded by the board.
const (
	AuditActionCreate  = "create"
	AuditActionUpdate  = "update"
	AuditActionDelete  = "delete"
	AuditActionReorder = "reorder"
)

// AuditEntry records a single mutation performed through the API: who did
// what to which entity. Entries are append-only; nothing updates them.
type AuditEntry struct {
	ID         string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Timestamp  time.Time `json:"timestamp"  gorm:"not null;index"`
	User       string    `json:"user"       gorm:"type:varchar(64);not null"`
	Action     string    `json:"action"     gorm:"type:varchar(16);not null;check:action IN ('create','update','delete','reorder')"`
	EntityType string    `json:"entityType" gorm:"type:varchar(16);not null"`
	EntityName string    `json:"entityName" gorm:"type:varchar(255);not null"`
	Details    string    `json:"details,omitempty" gorm:"type:text"`
}

// TableName returns the database table name for AuditEntry.
func (AuditEntry) TableName() string { return "audit_entries" }
