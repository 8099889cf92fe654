package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"KanbanGo/models"
)

// --- helpers ---

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}

	// 内存库限制为单连接，避免连接池各自拿到空库
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层连接失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.Task{}, &models.TaskImage{}); err != nil {
		t.Fatalf("迁移测试数据库失败: %v", err)
	}

	return db
}

func newTestLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// fakeObjectStore 内存对象存储，供服务测试使用
type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	putErr    error
	deleteErr error
	getErr    error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (f *fakeObjectStore) Put(ctx context.Context, key string, contentType string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[key] = append([]byte(nil), data...)
	return nil
}

func (f *fakeObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("对象不存在: %s", key)
	}
	return data, nil
}

func (f *fakeObjectStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeObjectStore) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func newTestImageService(t *testing.T, db *gorm.DB, store ObjectStore) *ImageService {
	t.Helper()
	return NewImageService(db, store, "kanban-images", "http://localhost:8080", newTestLogger())
}
