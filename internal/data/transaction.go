package data

import (
	"tube-go/internal/repository"

	"gorm.io/gorm"
)

// UnitOfWork 把一次跨多实体的删除级联包裹在数据库事务中执行。
// 回调里的任一步骤失败则整体回滚，读者不会观察到级联的中间状态。
type UnitOfWork interface {
	Execute(fn func(repos *TxRepositories) error) error
}

// TxRepositories 持有绑定在同一事务上的全部 Repository。
type TxRepositories struct {
	Users         repository.UserRepository
	Channels      repository.ChannelRepository
	Videos        repository.VideoRepository
	Comments      repository.CommentRepository
	Subscriptions repository.SubscriptionRepository
	Likes         repository.LikeRepository
}

type gormUnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork 创建基于 GORM 事务的工作单元。
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Execute(fn func(repos *TxRepositories) error) error {
	return u.db.Transaction(func(tx *gorm.DB) error {
		// 为本次事务临时构造绑定 tx 的 Repository 副本
		repos := &TxRepositories{
			Users:         repository.NewUserRepository(tx),
			Channels:      repository.NewChannelRepository(tx),
			Videos:        repository.NewVideoRepository(tx),
			Comments:      repository.NewCommentRepository(tx),
			Subscriptions: repository.NewSubscriptionRepository(tx),
			Likes:         repository.NewLikeRepository(tx),
		}
		return fn(repos)
	})
}
