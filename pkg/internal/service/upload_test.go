package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	minio "github.com/minio/minio-go/v7"

	"github.com/yeisme/assetvault/pkg/configs"
	s3c "github.com/yeisme/assetvault/pkg/internal/storage/s3"
)

// fakeObjectStore 内存对象存储，可按 key 子串注入写入失败.
type fakeObjectStore struct {
	mu      sync.Mutex
	cfg     configs.S3Config
	objects map[string][]byte
	// failPutSubstr 非空时，key 含该子串的写入返回错误.
	failPutSubstr string
	removeErr     error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{
		cfg: configs.S3Config{
			Endpoint:     "localhost:9000",
			Bucket:       "assetvault",
			PublicBucket: "assetvault-public",
		},
		objects: map[string][]byte{},
	}
}

func (f *fakeObjectStore) storedKey(bucket, key string) string { return bucket + "/" + key }

func (f *fakeObjectStore) GetConfig() configs.S3Config { return f.cfg }

func (f *fakeObjectStore) Put(_ context.Context, bucket, key string, r io.Reader, _ int64,
	_ s3c.PutOptions) (minio.UploadInfo, error) {
	if f.failPutSubstr != "" && strings.Contains(key, f.failPutSubstr) {
		return minio.UploadInfo{}, fmt.Errorf("injected put failure: %s", key)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}

	f.mu.Lock()
	f.objects[f.storedKey(bucket, key)] = data
	f.mu.Unlock()

	return minio.UploadInfo{Bucket: bucket, Key: key, ETag: "etag-" + key}, nil
}

func (f *fakeObjectStore) Remove(_ context.Context, bucket, key string) error {
	if f.removeErr != nil {
		return f.removeErr
	}

	f.mu.Lock()
	delete(f.objects, f.storedKey(bucket, key))
	f.mu.Unlock()

	return nil
}

func (f *fakeObjectStore) RemoveBatch(ctx context.Context, bucket string, keys []string) ([]string, error) {
	removed := make([]string, 0, len(keys))

	for _, k := range keys {
		if err := f.Remove(ctx, bucket, k); err != nil {
			return removed, err
		}

		removed = append(removed, k)
	}

	return removed, nil
}

func (f *fakeObjectStore) PresignedGet(_ context.Context, bucket, key string,
	expiry time.Duration, _ string) (string, error) {
	return fmt.Sprintf("http://%s/%s/%s?expires=%d", f.cfg.Endpoint, bucket, key, int(expiry.Seconds())), nil
}

func (f *fakeObjectStore) PublicURL(bucket, key string) string {
	return f.cfg.ObjectPublicURL(bucket, key)
}

func (f *fakeObjectStore) ListObjects(_ context.Context, bucket string,
	_ minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo)

	go func() {
		defer close(ch)

		f.mu.Lock()
		defer f.mu.Unlock()

		prefix := bucket + "/"
		for k := range f.objects {
			if strings.HasPrefix(k, prefix) {
				ch <- minio.ObjectInfo{Key: strings.TrimPrefix(k, prefix)}
			}
		}
	}()

	return ch
}

// objectCount 返回指定桶中的对象数.
func (f *fakeObjectStore) objectCount(bucket string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0

	for k := range f.objects {
		if strings.HasPrefix(k, bucket+"/") {
			n++
		}
	}

	return n
}

// newTestUploadService 构建带内存存储与内存 SQLite 的完整上传管道.
func newTestUploadService(t *testing.T) (*ImageService, *fakeObjectStore) {
	t.Helper()

	svc := newTestDBService(t)
	store := newFakeObjectStore()
	svc.s3Client = store

	return svc, store
}

// TestUploadImageSuccess 完整管道：原图与全部变体入库，元数据行落库.
func TestUploadImageSuccess(t *testing.T) {
	svc, store := newTestUploadService(t)
	ctx := context.Background()

	bound := configs.GetConfig().Pipeline.LargeBound
	data := newTestPNG(t, bound+400, bound)

	resp, err := svc.UploadImage(ctx, "catalog_item", "42", "big.png", data, nil)
	if err != nil {
		t.Fatalf("UploadImage failed: %v", err)
	}

	if resp.ProcessingStatus != "completed" {
		t.Errorf("Expected completed status, got %s", resp.ProcessingStatus)
	}

	if len(resp.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", resp.Warnings)
	}

	for _, name := range []string{VariantThumbnail, VariantMedium, VariantLarge} {
		if _, ok := resp.Variants[name]; !ok {
			t.Errorf("Expected variant %s in response", name)
		}
	}

	// 原图 + 3 个变体
	if got := store.objectCount("assetvault"); got != 4 {
		t.Errorf("Expected 4 stored objects, got %d", got)
	}

	if resp.Optimization == nil || resp.Optimization.OptimizedSize <= 0 {
		t.Error("Expected optimization stats on raster upload with variants")
	}

	if _, err := svc.GetAsset(ctx, resp.AssetID); err != nil {
		t.Errorf("Expected persisted asset row: %v", err)
	}
}

// TestUploadImagePartialVariantFailure 单个变体存储失败只降级，不中断上传.
func TestUploadImagePartialVariantFailure(t *testing.T) {
	svc, store := newTestUploadService(t)
	ctx := context.Background()

	store.failPutSubstr = "-" + VariantLarge + ".jpg"

	bound := configs.GetConfig().Pipeline.LargeBound
	data := newTestPNG(t, bound+400, bound)

	resp, err := svc.UploadImage(ctx, "catalog_item", "42", "big.png", data, nil)
	if err != nil {
		t.Fatalf("UploadImage failed: %v", err)
	}

	if resp.ProcessingStatus != "completed" {
		t.Errorf("Expected completed status with surviving variants, got %s", resp.ProcessingStatus)
	}

	if len(resp.Warnings) == 0 {
		t.Error("Expected warning for failed variant")
	}

	if _, ok := resp.Variants[VariantLarge]; ok {
		t.Error("Expected large variant absent after injected failure")
	}

	for _, name := range []string{VariantThumbnail, VariantMedium} {
		if _, ok := resp.Variants[name]; !ok {
			t.Errorf("Expected sibling variant %s stored", name)
		}
	}

	// 原图 + 2 个幸存变体
	if got := store.objectCount("assetvault"); got != 3 {
		t.Errorf("Expected 3 stored objects, got %d", got)
	}

	asset, err := svc.GetAsset(ctx, resp.AssetID)
	if err != nil {
		t.Fatalf("Expected persisted asset row: %v", err)
	}

	variants, err := asset.Variants()
	if err != nil {
		t.Fatalf("decode variants: %v", err)
	}

	if _, ok := variants[VariantLarge]; ok {
		t.Error("Expected large variant absent from persisted metadata")
	}
}

// TestUploadImageMetadataFailureCompensates 元数据入库失败时回收全部已写入对象.
func TestUploadImageMetadataFailureCompensates(t *testing.T) {
	svc, store := newTestUploadService(t)
	ctx := context.Background()

	// 删表让 Create 失败
	if err := svc.dbClient.Exec("DROP TABLE image_assets").Error; err != nil {
		t.Fatalf("drop table: %v", err)
	}

	data := newTestPNG(t, 400, 300)

	if _, err := svc.UploadImage(ctx, "catalog_item", "42", "c.png", data, nil); err == nil {
		t.Fatal("Expected error when metadata insert fails")
	}

	if got := store.objectCount("assetvault"); got != 0 {
		t.Errorf("Expected all stored objects compensated, %d left", got)
	}
}

// TestUploadImageLogoGoesPublic Logo 用途落公共桶并直出公共 URL.
func TestUploadImageLogoGoesPublic(t *testing.T) {
	svc, store := newTestUploadService(t)
	ctx := context.Background()

	resp, err := svc.UploadImage(ctx, "organization", "9", "logo.png", newTestPNG(t, 400, 300), nil)
	if err != nil {
		t.Fatalf("UploadImage failed: %v", err)
	}

	if resp.Bucket != "assetvault-public" {
		t.Errorf("Expected logo in public bucket, got %s", resp.Bucket)
	}

	if !strings.Contains(resp.PublicURL, "assetvault-public") {
		t.Errorf("Expected public URL pointing at public bucket, got %q", resp.PublicURL)
	}

	if store.objectCount("assetvault-public") == 0 {
		t.Error("Expected objects stored in public bucket")
	}

	// 普通用途仍留在私有桶，不带公共 URL
	gallery, err := svc.UploadImage(ctx, "catalog_item", "42", "g.png", newTestPNG(t, 400, 300), nil)
	if err != nil {
		t.Fatalf("UploadImage failed: %v", err)
	}

	if gallery.Bucket != "assetvault" || gallery.PublicURL != "" {
		t.Errorf("Expected private bucket without public URL, got %s %q", gallery.Bucket, gallery.PublicURL)
	}
}
