package repositories

import (
	"github.com/anonto42/linkup/backend/internal/models"
	"gorm.io/gorm"
)

// ConnectionRepository defines the graph store: confirmed connections and the
// directed requests that lead to them. Connection methods take canonical (low, high) pairs.
type ConnectionRepository interface {
	CreateConnection(conn *models.Connection) error
	ConnectionExists(low, high uint) (bool, error)
	GetConnectedUserIDs(userID uint) ([]uint, error)

	CreateRequest(req *models.ConnectionRequest) error
	GetRequestByID(id uint) (*models.ConnectionRequest, error)
	GetPendingRequestBetween(a, b uint) (*models.ConnectionRequest, error)
	GetPendingRequestFor(id, toUserID uint) (*models.ConnectionRequest, error)
	ResolvePendingRequest(id, toUserID uint, status models.ConnectionStatus) (bool, error)
	GetIncomingPendingRequests(userID uint) ([]models.ConnectionRequest, error)
	GetOutgoingPendingRequests(userID uint) ([]models.ConnectionRequest, error)
	GetPendingPeerIDs(userID uint) ([]uint, error)
}

// PostgresConnectionRepository implements ConnectionRepository with gorm
type PostgresConnectionRepository struct {
	db *gorm.DB
}

// NewPostgresConnectionRepository creates a new PostgresConnectionRepository
func NewPostgresConnectionRepository(db *gorm.DB) *PostgresConnectionRepository {
	return &PostgresConnectionRepository{db: db}
}

// CreateConnection inserts a canonical connection row
func (r *PostgresConnectionRepository) CreateConnection(conn *models.Connection) error {
	return r.db.Create(conn).Error
}

// ConnectionExists checks whether the canonical pair is connected
func (r *PostgresConnectionRepository) ConnectionExists(low, high uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Connection{}).
		Where("user_id1 = ? AND user_id2 = ?", low, high).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetConnectedUserIDs returns the other side of every connection of userID
func (r *PostgresConnectionRepository) GetConnectedUserIDs(userID uint) ([]uint, error) {
	var conns []models.Connection
	if err := r.db.Where("user_id1 = ? OR user_id2 = ?", userID, userID).
		Order("created_at, id").
		Find(&conns).Error; err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(conns))
	for _, c := range conns {
		if c.UserID1 == userID {
			ids = append(ids, c.UserID2)
		} else {
			ids = append(ids, c.UserID1)
		}
	}
	return ids, nil
}

// CreateRequest inserts a new connection request
func (r *PostgresConnectionRepository) CreateRequest(req *models.ConnectionRequest) error {
	return r.db.Create(req).Error
}

// GetRequestByID retrieves a connection request by ID
func (r *PostgresConnectionRepository) GetRequestByID(id uint) (*models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	if err := r.db.First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// GetPendingRequestBetween finds a pending request between a and b in either direction
func (r *PostgresConnectionRepository) GetPendingRequestBetween(a, b uint) (*models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	err := r.db.Where("((from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)) AND status = ?",
		a, b, b, a, models.ConnectionStatusPending).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// GetPendingRequestFor retrieves a pending request addressed to toUserID
func (r *PostgresConnectionRepository) GetPendingRequestFor(id, toUserID uint) (*models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	err := r.db.Where("id = ? AND to_user_id = ? AND status = ?", id, toUserID, models.ConnectionStatusPending).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ResolvePendingRequest moves a pending request addressed to toUserID into status.
// The status check and the write are one statement; false means nothing was pending.
func (r *PostgresConnectionRepository) ResolvePendingRequest(id, toUserID uint, status models.ConnectionStatus) (bool, error) {
	res := r.db.Model(&models.ConnectionRequest{}).
		Where("id = ? AND to_user_id = ? AND status = ?", id, toUserID, models.ConnectionStatusPending).
		Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// GetIncomingPendingRequests retrieves pending requests addressed to userID
func (r *PostgresConnectionRepository) GetIncomingPendingRequests(userID uint) ([]models.ConnectionRequest, error) {
	var requests []models.ConnectionRequest
	if err := r.db.Where("to_user_id = ? AND status = ?", userID, models.ConnectionStatusPending).
		Order("created_at, id").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// GetOutgoingPendingRequests retrieves pending requests sent by userID
func (r *PostgresConnectionRepository) GetOutgoingPendingRequests(userID uint) ([]models.ConnectionRequest, error) {
	var requests []models.ConnectionRequest
	if err := r.db.Where("from_user_id = ? AND status = ?", userID, models.ConnectionStatusPending).
		Order("created_at, id").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// GetPendingPeerIDs returns users with a pending request to or from userID
func (r *PostgresConnectionRepository) GetPendingPeerIDs(userID uint) ([]uint, error) {
	var requests []models.ConnectionRequest
	if err := r.db.Where("(from_user_id = ? OR to_user_id = ?) AND status = ?", userID, userID, models.ConnectionStatusPending).
		Find(&requests).Error; err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(requests))
	for _, req := range requests {
		if req.FromUserID == userID {
			ids = append(ids, req.ToUserID)
		} else {
			ids = append(ids, req.FromUserID)
		}
	}
	return ids, nil
}
