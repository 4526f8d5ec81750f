package services_test

import (
	"context"
	"fmt"
	"testing"

	"cuero/internal/models"
	"cuero/internal/services"
	"cuero/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func bulkFile(relativePath, contentType string, size int64) models.ImageFile {
	return models.ImageFile{
		Name:         relativePath[lastSlash(relativePath)+1:],
		ContentType:  contentType,
		Size:         size,
		RelativePath: relativePath,
		Data:         []byte("fake image bytes"),
	}
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}

func TestBulkUploadService_Group(t *testing.T) {
	service := services.NewBulkUploadService(nil)

	files := []models.ImageFile{
		bulkFile("catalog/Boots/front.jpg", "image/jpeg", 1024),
		bulkFile("catalog/Boots/side.jpg", "image/jpeg", 1024),
		bulkFile("catalog/Sandals/front.png", "image/png", 1024),
		// A file directly in the root folder belongs to no product.
		bulkFile("catalog/stray.jpg", "image/jpeg", 1024),
	}

	groups, fileErrors := service.Group(files)

	assert.Empty(t, fileErrors)
	assert.Len(t, groups, 2)
	assert.Len(t, groups["Boots"], 2)
	assert.Equal(t, "front.jpg", groups["Boots"][0].Name)
	assert.Equal(t, "side.jpg", groups["Boots"][1].Name)
	assert.Len(t, groups["Sandals"], 1)
}

func TestBulkUploadService_Group_RejectsInvalidFiles(t *testing.T) {
	service := services.NewBulkUploadService(nil)

	files := []models.ImageFile{
		bulkFile("catalog/Boots/front.jpg", "image/jpeg", 1024),
		bulkFile("catalog/Boots/animation.gif", "image/gif", 1024),
		bulkFile("catalog/Boots/huge.png", "image/png", services.MaxImageSize+1),
	}

	groups, fileErrors := service.Group(files)

	// The valid sibling stays in the group; the rejected files are reported
	// but do not fail the group.
	assert.Len(t, groups["Boots"], 1)
	assert.Equal(t, "front.jpg", groups["Boots"][0].Name)
	assert.Len(t, fileErrors, 2)
	assert.Equal(t, "animation.gif", fileErrors[0].Name)
	assert.Equal(t, "Boots", fileErrors[0].Folder)
	assert.Equal(t, "huge.png", fileErrors[1].Name)
}

func TestBulkUploadService_Process_OversizedGroupDoesNotBlockSiblings(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockStore := new(MockObjectStorage)
	catalog := services.NewCatalogService(mockRepo, mockStore, nil)
	service := services.NewBulkUploadService(catalog)

	groups := map[string][]models.ImageFile{
		"Boots":   {bulkFile("c/Boots/1.jpg", "image/jpeg", 10), bulkFile("c/Boots/2.jpg", "image/jpeg", 10), bulkFile("c/Boots/3.jpg", "image/jpeg", 10), bulkFile("c/Boots/4.jpg", "image/jpeg", 10), bulkFile("c/Boots/5.jpg", "image/jpeg", 10), bulkFile("c/Boots/6.jpg", "image/jpeg", 10)},
		"Sandals": {bulkFile("c/Sandals/1.jpg", "image/jpeg", 10)},
	}

	mockRepo.On("Create", mock.AnythingOfType("*models.Product")).Run(func(args mock.Arguments) {
		p := args.Get(0).(*models.Product)
		p.ID = "prod-sandals"
		assert.Equal(t, "Sandals", p.Name)
	}).Return(nil).Once()
	mockStore.On("Upload", mock.Anything, storage.ProductImagesBucket, mock.Anything, mock.Anything, false).Return(nil).Once()
	mockStore.On("PublicURL", storage.ProductImagesBucket, mock.Anything).Return("https://cdn.example/prod-sandals/1.jpg")
	mockRepo.On("CreateImage", mock.AnythingOfType("*models.ProductImage")).Return(nil).Once()
	mockRepo.On("GetAllWithImages").Return([]models.Product{}, nil)
	mockRepo.On("GetByID", "prod-sandals").Return(&models.Product{ID: "prod-sandals", Name: "Sandals"}, nil).Once()

	results := service.Process(context.Background(), groups, "Boots", nil)

	assert.Len(t, results, 2)
	byProduct := map[string]services.GroupResult{}
	for _, r := range results {
		byProduct[r.Product] = r
	}
	assert.NotEmpty(t, byProduct["Boots"].Error)
	assert.Nil(t, byProduct["Boots"].Created)
	assert.Empty(t, byProduct["Sandals"].Error)
	assert.Equal(t, "prod-sandals", byProduct["Sandals"].Created.ID)
	// Only the Sandals product may have reached the repository.
	mockRepo.AssertNumberOfCalls(t, "Create", 1)
	mockRepo.AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

func TestBulkUploadService_Process_FailedGroupRecordedAndLoopContinues(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockStore := new(MockObjectStorage)
	catalog := services.NewCatalogService(mockRepo, mockStore, nil)
	service := services.NewBulkUploadService(catalog)

	groups := map[string][]models.ImageFile{
		"Boots":   {bulkFile("c/Boots/1.jpg", "image/jpeg", 10)},
		"Sandals": {bulkFile("c/Sandals/1.jpg", "image/jpeg", 10)},
	}

	mockRepo.On("Create", mock.MatchedBy(func(p *models.Product) bool {
		return p.Name == "Boots"
	})).Return(fmt.Errorf("insert failed"))
	mockRepo.On("Create", mock.MatchedBy(func(p *models.Product) bool {
		return p.Name == "Sandals"
	})).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Product).ID = "prod-sandals"
	}).Return(nil)
	mockStore.On("Upload", mock.Anything, storage.ProductImagesBucket, mock.Anything, mock.Anything, false).Return(nil)
	mockStore.On("PublicURL", storage.ProductImagesBucket, mock.Anything).Return("https://cdn.example/prod-sandals/1.jpg")
	mockRepo.On("CreateImage", mock.AnythingOfType("*models.ProductImage")).Return(nil)
	mockRepo.On("GetAllWithImages").Return([]models.Product{}, nil)
	mockRepo.On("GetByID", "prod-sandals").Return(&models.Product{ID: "prod-sandals", Name: "Sandals"}, nil)

	results := service.Process(context.Background(), groups, "Boots", nil)

	assert.Len(t, results, 2)
	byProduct := map[string]services.GroupResult{}
	for _, r := range results {
		byProduct[r.Product] = r
	}
	assert.NotEmpty(t, byProduct["Boots"].Error)
	assert.NotNil(t, byProduct["Sandals"].Created)
}

func TestBulkUploadService_Process_SkipsEmptyGroups(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockStore := new(MockObjectStorage)
	catalog := services.NewCatalogService(mockRepo, mockStore, nil)
	service := services.NewBulkUploadService(catalog)

	results := service.Process(context.Background(), map[string][]models.ImageFile{"Empty": {}}, "Boots", nil)

	assert.Empty(t, results)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestBulkUploadService_Process_RejectsInvalidFolderName(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockStore := new(MockObjectStorage)
	catalog := services.NewCatalogService(mockRepo, mockStore, nil)
	service := services.NewBulkUploadService(catalog)

	// "AB" is shorter than the minimum product name; its sibling is fine.
	groups := map[string][]models.ImageFile{
		"AB":      {bulkFile("c/AB/1.jpg", "image/jpeg", 10)},
		"Sandals": {bulkFile("c/Sandals/1.jpg", "image/jpeg", 10)},
	}

	mockRepo.On("Create", mock.MatchedBy(func(p *models.Product) bool {
		return p.Name == "Sandals"
	})).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Product).ID = "prod-sandals"
	}).Return(nil).Once()
	mockStore.On("Upload", mock.Anything, storage.ProductImagesBucket, mock.Anything, mock.Anything, false).Return(nil).Once()
	mockStore.On("PublicURL", storage.ProductImagesBucket, mock.Anything).Return("https://cdn.example/prod-sandals/1.jpg")
	mockRepo.On("CreateImage", mock.AnythingOfType("*models.ProductImage")).Return(nil).Once()
	mockRepo.On("GetAllWithImages").Return([]models.Product{}, nil)
	mockRepo.On("GetByID", "prod-sandals").Return(&models.Product{ID: "prod-sandals", Name: "Sandals"}, nil).Once()

	results := service.Process(context.Background(), groups, "Boots", nil)

	assert.Len(t, results, 2)
	byProduct := map[string]services.GroupResult{}
	for _, r := range results {
		byProduct[r.Product] = r
	}
	assert.NotEmpty(t, byProduct["AB"].Error)
	assert.Nil(t, byProduct["AB"].Created)
	assert.NotNil(t, byProduct["Sandals"].Created)
	// The invalid folder must never reach the repository or storage.
	mockRepo.AssertNumberOfCalls(t, "Create", 1)
	mockRepo.AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

func TestBulkUploadService_Process_SharesCategoryAndPrice(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockStore := new(MockObjectStorage)
	catalog := services.NewCatalogService(mockRepo, mockStore, nil)
	service := services.NewBulkUploadService(catalog)

	price := 129.99
	mockRepo.On("Create", mock.AnythingOfType("*models.Product")).Run(func(args mock.Arguments) {
		p := args.Get(0).(*models.Product)
		p.ID = "prod-1"
		assert.Equal(t, "Loafers", p.Category)
		assert.NotNil(t, p.Price)
		assert.Equal(t, price, *p.Price)
		assert.False(t, p.Featured)
	}).Return(nil).Once()
	mockStore.On("Upload", mock.Anything, storage.ProductImagesBucket, mock.Anything, mock.Anything, false).Return(nil).Once()
	mockStore.On("PublicURL", storage.ProductImagesBucket, mock.Anything).Return("https://cdn.example/prod-1/1.jpg")
	mockRepo.On("CreateImage", mock.AnythingOfType("*models.ProductImage")).Return(nil).Once()
	mockRepo.On("GetAllWithImages").Return([]models.Product{}, nil)
	mockRepo.On("GetByID", "prod-1").Return(&models.Product{ID: "prod-1"}, nil).Once()

	groups := map[string][]models.ImageFile{
		"Penny Loafer": {bulkFile("c/Penny Loafer/1.jpg", "image/jpeg", 10)},
	}
	results := service.Process(context.Background(), groups, "Loafers", &price)

	assert.Len(t, results, 1)
	assert.Empty(t, results[0].Error)
	mockRepo.AssertExpectations(t)
}
