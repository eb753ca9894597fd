package extraction

const buyersInfoText = `SAKURA TRADING CO., LTD.
BUYER'S INFO
Buyer: Pacific Foods Inc.
Buyer's PO No.: BP-2024-0117
Destination: Los Angeles, USA
Payment Terms: T/T 30 days after B/L
Shipping Terms: CIF Los Angeles

Description          Quantity    Unit Price    Amount
Green Tea Powder     500 kg      $12.50        $6,250.00
Roasted Barley Tea   200 kg      $8.00         $1,600.00

Total Amount: USD 7,850.00
`

const purchaseOrderText = `PURCHASE ORDER
Vendor: Sakura Trading Co., Ltd.
P.O. Number: PO-88231
Date: 2024-03-14

Bill To:
Northwind Traders LLC
1200 Harbor Blvd, Oakland, CA

Ship To: Oakland Distribution Center
Terms: Net 45
Ship Via: Ocean Freight

Item  Description        Qty       Unit Price   Total
1     Matcha Latte Mix   120 pcs   $4.50        $540.00
2     Sencha Tea Bags    300 pcs   $2.00        $600.00

Subtotal: $1,140.00
Tax: $0.00
Total: $1,140.00
`

const orderConfirmationText = `ORDER CONFIMATION
Order No: OC-2024-055
Customer Name: Oceanic Seafood Ltd.
Customer PO No.: CPO-7781
Price Term: CFR Busan
Payment: L/C at sight
Port of Destination: Busan, Korea

Product Name          Qty(MT)    Price(USD/MT)    Amount(USD)
Frozen Tuna Loin      20         4,500.00         90,000.00
--- Page 2 ---
Frozen Skipjack       15.5       1,800.00         27,900.00

Grand Total: USD 117,900.00
`

const looseText = `Customer: Acme Corp
PO Number: PO-100
Widget  10  $50.00  $500.00
Total: $500.00
`

const noAnchorsText = `The quick brown fox
jumps over the lazy dog.`
