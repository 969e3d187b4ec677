package seed

import "github.com/angelmondragon/grocerylist-backend/pkg/enums"

// CategorySeed describes one default category and its items.
type CategorySeed struct {
	Name        string
	Description string
	Items       []ItemSeed
}

// ItemSeed describes one default item.
type ItemSeed struct {
	Name  string
	Unit  enums.ItemUnit
	Price string
	Image string
}

const unsplash = "https://images.unsplash.com/photo-"

// DefaultCatalog is the starter data installed by Run.
var DefaultCatalog = []CategorySeed{
	{
		Name:        "Vegetables",
		Description: "Fresh vegetables",
		Items: []ItemSeed{
			{Name: "Tomatoes", Unit: enums.ItemUnitKilogram, Price: "3.50", Image: unsplash + "1546470427-e26264be0b0d?w=200"},
			{Name: "Potatoes", Unit: enums.ItemUnitKilogram, Price: "2.00", Image: unsplash + "1518977676601-b53f82aba655?w=200"},
			{Name: "Onions", Unit: enums.ItemUnitKilogram, Price: "2.50", Image: unsplash + "1508747703725-719777637510?w=200"},
			{Name: "Carrots", Unit: enums.ItemUnitKilogram, Price: "2.80", Image: unsplash + "1598170845058-32b9d6a5da37?w=200"},
			{Name: "Spinach", Unit: enums.ItemUnitPack, Price: "2.00", Image: unsplash + "1576045057995-568f588f82fb?w=200"},
		},
	},
	{
		Name:        "Fruits",
		Description: "Fresh fruits",
		Items: []ItemSeed{
			{Name: "Apples", Unit: enums.ItemUnitKilogram, Price: "4.50", Image: unsplash + "1560806887-1e4cd0b6cbd6?w=200"},
			{Name: "Bananas", Unit: enums.ItemUnitDozen, Price: "3.00", Image: unsplash + "1603833665858-e61d17a86224?w=200"},
			{Name: "Oranges", Unit: enums.ItemUnitKilogram, Price: "3.50", Image: unsplash + "1547514701-42782101795e?w=200"},
			{Name: "Grapes", Unit: enums.ItemUnitKilogram, Price: "5.50", Image: unsplash + "1599819177746-f84c48c02c19?w=200"},
			{Name: "Strawberries", Unit: enums.ItemUnitPack, Price: "4.00", Image: unsplash + "1464965911861-746a04b4bca6?w=200"},
		},
	},
	{
		Name:        "Dairy",
		Description: "Milk and dairy products",
		Items: []ItemSeed{
			{Name: "Milk", Unit: enums.ItemUnitLiter, Price: "3.50", Image: unsplash + "1563636619-e9143da7973b?w=200"},
			{Name: "Yogurt", Unit: enums.ItemUnitPack, Price: "2.50", Image: unsplash + "1488477181946-6428a0291777?w=200"},
			{Name: "Cheese", Unit: enums.ItemUnitPack, Price: "5.00", Image: unsplash + "1486297678162-eb2a19b0a32d?w=200"},
			{Name: "Butter", Unit: enums.ItemUnitPack, Price: "4.50", Image: unsplash + "1589985270826-4b7bb135bc9d?w=200"},
			{Name: "Eggs", Unit: enums.ItemUnitDozen, Price: "3.00", Image: unsplash + "1582722872445-44dc5f7e3c8f?w=200"},
		},
	},
	{
		Name:        "Snacks",
		Description: "Snacks and munchies",
		Items: []ItemSeed{
			{Name: "Potato Chips", Unit: enums.ItemUnitPack, Price: "2.50", Image: unsplash + "1566478989037-eec170784d0b?w=200"},
			{Name: "Cookies", Unit: enums.ItemUnitPack, Price: "3.00", Image: unsplash + "1558961363-fa8fdf82db35?w=200"},
			{Name: "Nuts Mix", Unit: enums.ItemUnitPack, Price: "4.50", Image: unsplash + "1599599810769-bcde5a160d32?w=200"},
			{Name: "Chocolate Bar", Unit: enums.ItemUnitPiece, Price: "2.00", Image: unsplash + "1511381939415-e44015466834?w=200"},
		},
	},
	{
		Name:        "Beverages",
		Description: "Drinks and beverages",
		Items: []ItemSeed{
			{Name: "Orange Juice", Unit: enums.ItemUnitLiter, Price: "3.50", Image: unsplash + "1600271886742-f049cd451bba?w=200"},
			{Name: "Coffee", Unit: enums.ItemUnitPack, Price: "8.00", Image: unsplash + "1447933601403-0c6688de566e?w=200"},
			{Name: "Tea", Unit: enums.ItemUnitPack, Price: "5.00", Image: unsplash + "1563822249366-3efb6fffccac?w=200"},
			{Name: "Soft Drink", Unit: enums.ItemUnitLiter, Price: "2.00", Image: unsplash + "1629203851122-3726ecdf080e?w=200"},
		},
	},
	{
		Name:        "Bakery",
		Description: "Bread and baked goods",
		Items: []ItemSeed{
			{Name: "White Bread", Unit: enums.ItemUnitPiece, Price: "2.50", Image: unsplash + "1509440159596-0249088772ff?w=200"},
			{Name: "Whole Wheat Bread", Unit: enums.ItemUnitPiece, Price: "3.00", Image: unsplash + "1549931319-a545dcf3bc34?w=200"},
			{Name: "Croissant", Unit: enums.ItemUnitPack, Price: "4.00", Image: unsplash + "1530610476181-d83430b64dcd?w=200"},
		},
	},
	{
		Name:        "Meat & Seafood",
		Description: "Fresh meat and seafood",
		Items: []ItemSeed{
			{Name: "Chicken Breast", Unit: enums.ItemUnitKilogram, Price: "8.00", Image: unsplash + "1604503468506-a8da13d82791?w=200"},
			{Name: "Ground Beef", Unit: enums.ItemUnitKilogram, Price: "10.00", Image: unsplash + "1603048297172-c92544798d5a?w=200"},
			{Name: "Salmon Fillet", Unit: enums.ItemUnitKilogram, Price: "15.00", Image: unsplash + "1580476262798-bddd9f4b7369?w=200"},
		},
	},
	{
		Name:        "Pantry",
		Description: "Dry goods and pantry staples",
		Items: []ItemSeed{
			{Name: "Rice", Unit: enums.ItemUnitKilogram, Price: "3.00", Image: unsplash + "1586201375761-83865001e31c?w=200"},
			{Name: "Pasta", Unit: enums.ItemUnitPack, Price: "2.50", Image: unsplash + "1551462147-ff29053bfc14?w=200"},
			{Name: "Olive Oil", Unit: enums.ItemUnitLiter, Price: "8.00", Image: unsplash + "1474979266404-7eaacbcd87c5?w=200"},
			{Name: "Salt", Unit: enums.ItemUnitPack, Price: "1.50", Image: unsplash + "1598932431118-9f896f3faf5b?w=200"},
			{Name: "Sugar", Unit: enums.ItemUnitKilogram, Price: "2.00", Image: unsplash + "1558961363-fa8fdf82db35?w=200"},
		},
	},
}
