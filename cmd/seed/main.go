package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/foodierank/foodierank-backend/config"
	"github.com/foodierank/foodierank-backend/internal/app/model"
	"github.com/foodierank/foodierank-backend/internal/app/repository"
	"github.com/foodierank/foodierank-backend/internal/db"
	"github.com/foodierank/foodierank-backend/internal/ranking"
	"github.com/foodierank/foodierank-backend/pkg/util"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// 데이터 적재 도구.
//
//	go run cmd/seed/main.go demo        # 데모 데이터 (사용자/카테고리/음식점/메뉴/리뷰)
//	go run cmd/seed/main.go data.xlsx   # 공공 음식점 데이터(XLSX) 일괄 적재
//
// XLSX로 적재된 음식점은 승인 상태로 들어가며 집계 컬럼은 0에서 시작한다.
func main() {
	// 명령줄 인자 확인
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <demo | xlsx_file_path>")
	}

	arg := os.Args[1]

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// DB 연결
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if arg == "demo" {
		if err := seedDemo(); err != nil {
			log.Fatal("Failed to seed demo data:", err)
		}
		fmt.Println("Demo data seeded successfully!")
		return
	}

	filePath := arg

	// Repository 생성
	userRepo := repository.NewUserRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	restaurantRepo := repository.NewRestaurantRepository(db.GetDB())

	// 적재 데이터의 제안자로 쓸 시스템 계정 확보
	importer, err := ensureImporterAccount(userRepo)
	if err != nil {
		log.Fatal("Failed to prepare importer account:", err)
	}

	// 카테고리 이름 → ID 매핑 (없는 카테고리는 생성)
	categories, err := loadCategoryIndex(categoryRepo)
	if err != nil {
		log.Fatal("Failed to load categories:", err)
	}

	// XLSX 파일 읽기
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	restaurants, err := readRestaurantsFromXLSX(filePath, importer.ID, categories, categoryRepo)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total restaurants to import: %d\n", len(restaurants))

	// 사용자 확인
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	// 배치로 저장
	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := restaurantRepo.BulkCreate(restaurants, batchSize); err != nil {
		log.Fatal("Failed to bulk create restaurants:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total restaurants imported: %d\n", len(restaurants))
}

// seedDemo 데모 데이터를 넣는다.
// 리뷰를 먼저 구성한 뒤 집계와 점수를 거기서 계산하므로
// 집계 컬럼이 실제 리뷰와 어긋난 채로 시작하는 일이 없다.
func seedDemo() error {
	gdb := db.GetDB()

	// 재실행 방지
	var userCount int64
	if err := gdb.Model(&model.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return errors.New("database is not empty, refusing to seed demo data")
	}

	hash, err := util.HashPassword("password123")
	if err != nil {
		return err
	}

	admin := model.User{Email: "admin@foodierank.local", PasswordHash: hash, Name: "관리자", Role: model.RoleAdmin}
	minsu := model.User{Email: "minsu@example.com", PasswordHash: hash, Name: "김민수", Role: model.RoleUser}
	jiyoung := model.User{Email: "jiyoung@example.com", PasswordHash: hash, Name: "박지영", Role: model.RoleUser}
	for _, u := range []*model.User{&admin, &minsu, &jiyoung} {
		if err := gdb.Create(u).Error; err != nil {
			return err
		}
	}

	korean := model.Category{Name: "한식", Description: "한국 음식"}
	japanese := model.Category{Name: "일식", Description: "일본 음식"}
	for _, c := range []*model.Category{&korean, &japanese} {
		if err := gdb.Create(c).Error; err != nil {
			return err
		}
	}

	gukbap := model.Restaurant{
		Name: "전주식당", Description: "50년 전통 국밥집", Address: "서울 종로구 1-1",
		CategoryID: &korean.ID, ProposedBy: admin.ID, Approved: true,
	}
	sushi := model.Restaurant{
		Name: "스시와", Description: "오마카세 전문", Address: "서울 강남구 2-2",
		CategoryID: &japanese.ID, ProposedBy: minsu.ID, Approved: true,
	}
	pending := model.Restaurant{
		Name: "신규분식", Description: "승인 대기 중", Address: "서울 마포구 3-3",
		CategoryID: &korean.ID, ProposedBy: jiyoung.ID, Approved: false,
	}
	for _, r := range []*model.Restaurant{&gukbap, &sushi, &pending} {
		if err := gdb.Create(r).Error; err != nil {
			return err
		}
	}

	sundae := model.Dish{RestaurantID: gukbap.ID, Name: "순대국밥", Price: 9000, CreatedBy: admin.ID}
	omakase := model.Dish{RestaurantID: sushi.ID, Name: "런치 오마카세", Price: 55000, CreatedBy: minsu.ID}
	for _, d := range []*model.Dish{&sundae, &omakase} {
		if err := gdb.Create(d).Error; err != nil {
			return err
		}
	}

	reviews := []model.Review{
		{ResourceType: model.ResourceRestaurant, ResourceID: gukbap.ID, AuthorID: minsu.ID, Rating: 5, Comment: "인생 국밥"},
		{ResourceType: model.ResourceRestaurant, ResourceID: gukbap.ID, AuthorID: jiyoung.ID, Rating: 4, Comment: "든든하다"},
		{ResourceType: model.ResourceRestaurant, ResourceID: sushi.ID, AuthorID: jiyoung.ID, Rating: 5, Comment: "재방문 의사 있음"},
		{ResourceType: model.ResourceDish, ResourceID: sundae.ID, AuthorID: jiyoung.ID, Rating: 4, Comment: "양이 많다"},
	}
	for i := range reviews {
		if err := gdb.Create(&reviews[i]).Error; err != nil {
			return err
		}
	}

	// 리뷰로부터 집계와 점수 계산
	type aggregate struct{ count, sum int }
	restaurantAgg := map[uint]*aggregate{}
	dishAgg := map[uint]*aggregate{}
	for _, review := range reviews {
		target := restaurantAgg
		if review.ResourceType == model.ResourceDish {
			target = dishAgg
		}
		if target[review.ResourceID] == nil {
			target[review.ResourceID] = &aggregate{}
		}
		target[review.ResourceID].count++
		target[review.ResourceID].sum += review.Rating
	}

	for id, agg := range restaurantAgg {
		err := gdb.Model(&model.Restaurant{}).Where("id = ?", id).Updates(map[string]interface{}{
			"rating_count":  agg.count,
			"rating_sum":    agg.sum,
			"ranking_score": ranking.ComputeScore(agg.count, agg.sum),
		}).Error
		if err != nil {
			return err
		}
	}
	for id, agg := range dishAgg {
		err := gdb.Model(&model.Dish{}).Where("id = ?", id).Updates(map[string]interface{}{
			"rating_count": agg.count,
			"rating_sum":   agg.sum,
		}).Error
		if err != nil {
			return err
		}
	}

	fmt.Printf("Seeded %d users, %d categories, %d restaurants, %d dishes, %d reviews\n",
		3, 2, 3, 2, len(reviews))
	return nil
}

// ensureImporterAccount 적재용 관리자 계정을 찾거나 생성한다
func ensureImporterAccount(userRepo repository.UserRepository) (*model.User, error) {
	const importerEmail = "importer@foodierank.local"

	existing, err := userRepo.FindByEmail(importerEmail)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	password := os.Getenv("SEED_IMPORTER_PASSWORD")
	if password == "" {
		// 로그인 용도가 아니므로 무작위가 아니어도 무방하지만, 빈 해시는 두지 않는다
		password = "import-only"
	}
	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, err
	}

	importer := &model.User{
		Email:        importerEmail,
		PasswordHash: hash,
		Name:         "Data Importer",
		Role:         model.RoleAdmin,
	}
	if err := userRepo.Create(importer); err != nil {
		return nil, err
	}

	fmt.Printf("Created importer account: %s\n", importerEmail)
	return importer, nil
}

func loadCategoryIndex(categoryRepo repository.CategoryRepository) (map[string]uint, error) {
	categories, err := categoryRepo.FindAll()
	if err != nil {
		return nil, err
	}

	index := make(map[string]uint, len(categories))
	for _, category := range categories {
		index[category.Name] = category.ID
	}
	return index, nil
}

// readRestaurantsFromXLSX XLSX에서 음식점 데이터를 읽는다.
// 기대 컬럼: 상호명 | 카테고리 | 주소 | 설명 (첫 행은 헤더)
func readRestaurantsFromXLSX(
	filePath string,
	importerID uint,
	categories map[string]uint,
	categoryRepo repository.CategoryRepository,
) ([]model.Restaurant, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	// 첫 번째 시트 이름 가져오기
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var restaurants []model.Restaurant
	seen := make(map[string]bool) // 중복 제거용 (이름+주소)
	skippedCount := 0

	// 첫 행은 헤더이므로 스킵
	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 3 {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(row[0])
		categoryName := strings.TrimSpace(row[1])
		address := strings.TrimSpace(row[2])
		description := ""
		if len(row) > 3 {
			description = strings.TrimSpace(row[3])
		}

		// 필수 항목과 상호명 품질 검증
		if name == "" || address == "" || !isValidRestaurantName(name) {
			skippedCount++
			continue
		}

		// 중복 체크 (이름+주소 기준)
		key := fmt.Sprintf("%s|%s", name, address)
		if seen[key] {
			skippedCount++
			continue
		}
		seen[key] = true

		var categoryID *uint
		if categoryName != "" {
			id, err := resolveCategory(categoryName, categories, categoryRepo)
			if err != nil {
				return nil, err
			}
			categoryID = &id
		}

		restaurants = append(restaurants, model.Restaurant{
			Name:        name,
			Description: description,
			Address:     address,
			CategoryID:  categoryID,
			ProposedBy:  importerID,
			Approved:    true,
		})

		// 진행 상황 출력 (1000개마다)
		if len(restaurants)%1000 == 0 {
			fmt.Printf("Processed %d restaurants...\n", len(restaurants))
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid restaurants: %d\n", len(restaurants))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return restaurants, nil
}

// resolveCategory 카테고리 이름을 ID로 바꾼다. 없으면 새로 만든다.
func resolveCategory(
	name string,
	index map[string]uint,
	categoryRepo repository.CategoryRepository,
) (uint, error) {
	if id, ok := index[name]; ok {
		return id, nil
	}

	category := &model.Category{Name: name}
	if err := categoryRepo.Create(category); err != nil {
		return 0, fmt.Errorf("failed to create category %q: %w", name, err)
	}
	index[name] = category.ID

	fmt.Printf("Created category: %s\n", name)
	return category.ID, nil
}

// isValidRestaurantName 상호명이 유효한지 검증한다
func isValidRestaurantName(name string) bool {
	// 최소 길이 체크 (2글자 미만 제외)
	if len([]rune(name)) < 2 {
		return false
	}

	// 숫자만 있는 경우 제외
	if regexp.MustCompile(`^[0-9]+$`).MatchString(name) {
		return false
	}

	// 특수문자만 있는 경우 제외 (공백, 구두점, 기호만)
	if regexp.MustCompile(`^[\p{P}\p{S}\s]+$`).MatchString(name) {
		return false
	}

	return true
}
